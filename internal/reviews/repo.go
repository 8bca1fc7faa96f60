package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

// Repository encapsulates review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a review repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the review. The unique (user_id, product_id) index surfaces
// a duplicate as a constraint violation the service maps to Conflict.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

type reviewRecord struct {
	ID                 uuid.UUID `gorm:"column:id"`
	UserID             uuid.UUID `gorm:"column:user_id"`
	UserName           string    `gorm:"column:user_name"`
	Rating             int       `gorm:"column:rating"`
	Comment            *string   `gorm:"column:comment"`
	IsVerifiedPurchase bool      `gorm:"column:is_verified_purchase"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

// ListByProduct returns a product's reviews newest first with the reviewer
// name resolved.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (PageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("reviews rv").
		Select("rv.id, rv.user_id, u.name AS user_name, rv.rating, rv.comment, rv.is_verified_purchase, rv.created_at").
		Joins("JOIN users u ON u.id = rv.user_id").
		Where("rv.product_id = ?", productID)

	if decodedCursor != nil {
		query = query.Where("(rv.created_at < ?) OR (rv.created_at = ? AND rv.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []reviewRecord
	if err := query.
		Order("rv.created_at DESC").
		Order("rv.id DESC").
		Limit(limitWithBuffer).
		Scan(&records).
		Error; err != nil {
		return PageDTO{}, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID).
		Count(&total).
		Error; err != nil {
		return PageDTO{}, err
	}

	reviews := make([]ReviewDTO, 0, len(records))
	for _, rec := range records {
		reviews = append(reviews, ReviewDTO{
			ID:                 rec.ID,
			UserID:             rec.UserID,
			UserName:           rec.UserName,
			Rating:             rec.Rating,
			Comment:            rec.Comment,
			IsVerifiedPurchase: rec.IsVerifiedPurchase,
			CreatedAt:          rec.CreatedAt,
		})
	}

	return PageDTO{
		Reviews:    reviews,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}
