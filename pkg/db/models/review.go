package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's rating of a product, at most one per (user, product).
type Review struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:reviews_user_product_key"`
	ProductID          uuid.UUID `gorm:"column:product_id;type:uuid;not null;index;uniqueIndex:reviews_user_product_key"`
	Rating             int       `gorm:"column:rating;not null"`
	Comment            *string   `gorm:"column:comment"`
	IsVerifiedPurchase bool      `gorm:"column:is_verified_purchase;not null;default:false"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
