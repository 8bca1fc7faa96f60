package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the product slice a wishlist row carries.
type ProductDTO struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	IsActive bool            `json:"is_active"`
}

// ItemDTO is one saved product.
type ItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	Product   ProductDTO `json:"product"`
	CreatedAt time.Time  `json:"created_at"`
}

// PageDTO is one cursor page of wishlist entries.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
	Total      int64     `json:"total"`
}
