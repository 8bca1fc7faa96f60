package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	"github.com/adiwidodo/tokokita-backend/pkg/types"
)

// ItemSnapshot freezes one cart line the moment checkout commits.
type ItemSnapshot struct {
	ProductID   uuid.UUID
	ProductName string
	Price       decimal.Decimal
	Quantity    int
}

// AssembleInput carries everything needed to build a persistable order.
type AssembleInput struct {
	UserID          uuid.UUID
	Items           []ItemSnapshot
	ShippingAddress types.ShippingAddress
	ShippingService string
	PaymentMethod   enums.PaymentMethod
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Total           decimal.Decimal
	Notes           *string
	Now             time.Time
}

// Assemble builds the order header and denormalized items. New orders always
// start pending on both status and payment status.
func Assemble(input AssembleInput) *models.Order {
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     NewOrderNumber(now),
		UserID:          input.UserID,
		Subtotal:        input.Subtotal,
		ShippingCost:    input.ShippingCost,
		Total:           input.Total,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		ShippingService: input.ShippingService,
		Notes:           input.Notes,
	}

	order.Items = make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Total:       item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return order
}
