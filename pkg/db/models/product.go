package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Stock is the only field the
// checkout core mutates, and never below zero.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Name        string          `gorm:"column:name;not null;index"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex"`
	Description string          `gorm:"column:description;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Weight      decimal.Decimal `gorm:"column:weight;type:numeric(8,2);not null;default:0"`
	// No default tag: gorm would skip the zero value on insert and an
	// inactive product could never be created.
	IsActive   bool      `gorm:"column:is_active;not null;index"`
	IsFeatured bool      `gorm:"column:is_featured;not null;default:false;index"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
