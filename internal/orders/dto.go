package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	"github.com/adiwidodo/tokokita-backend/pkg/types"
)

// ItemDTO is one purchased line as rendered in order history. Name and price
// are the snapshots taken at checkout, not the live product.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// DetailDTO is the full order view returned by checkout and order lookup.
type DetailDTO struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"order_number"`
	Status          enums.OrderStatus     `json:"status"`
	PaymentStatus   enums.PaymentStatus   `json:"payment_status"`
	PaymentMethod   enums.PaymentMethod   `json:"payment_method"`
	ShippingService string                `json:"shipping_service"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost"`
	Total           decimal.Decimal       `json:"total"`
	TrackingNumber  *string               `json:"tracking_number,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	Items           []ItemDTO             `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
}

// SummaryDTO is the order history row.
type SummaryDTO struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Total         decimal.Decimal     `json:"total"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PageDTO is one cursor page of order history.
type PageDTO struct {
	Orders     []SummaryDTO `json:"orders"`
	NextCursor string       `json:"next_cursor,omitempty"`
	Total      int64        `json:"total"`
}
