package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`,
			uuid.New(), userID, productID, time.Now().UTC()).
		Error
}

// RemoveItem deletes the user-product entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

type wishlistRecord struct {
	WishlistID        uuid.UUID       `gorm:"column:wishlist_id"`
	WishlistCreatedAt time.Time       `gorm:"column:wishlist_created_at"`
	ProductID         uuid.UUID       `gorm:"column:product_id"`
	Name              string          `gorm:"column:name"`
	Slug              string          `gorm:"column:slug"`
	Price             decimal.Decimal `gorm:"column:price"`
	Stock             int             `gorm:"column:stock"`
	IsActive          bool            `gorm:"column:is_active"`
}

// ListItems returns a cursor page of wishlist entries, newest first, with
// product data resolved.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select("wi.id AS wishlist_id, wi.created_at AS wishlist_created_at, p.id AS product_id, p.name, p.slug, p.price, p.stock, p.is_active").
		Joins("JOIN products p ON p.id = wi.product_id").
		Where("wi.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(wi.created_at < ?) OR (wi.created_at = ? AND wi.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []wishlistRecord
	if err := query.
		Order("wi.created_at DESC").
		Order("wi.id DESC").
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
			CreatedAt: last.WishlistCreatedAt,
			ID:        last.WishlistID,
		})
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error; err != nil {
		return PageDTO{}, err
	}

	items := make([]ItemDTO, 0, len(records))
	for _, rec := range records {
		items = append(items, ItemDTO{
			ID:        rec.WishlistID,
			CreatedAt: rec.WishlistCreatedAt,
			Product: ProductDTO{
				ID:       rec.ProductID,
				Name:     rec.Name,
				Slug:     rec.Slug,
				Price:    rec.Price,
				Stock:    rec.Stock,
				IsActive: rec.IsActive,
			},
		})
	}

	return PageDTO{
		Items:      items,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}
