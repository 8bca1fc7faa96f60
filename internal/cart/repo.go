package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindLine loads the user's line for a product, if any.
func (r *Repository) FindLine(ctx context.Context, userID, productID uuid.UUID) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).
		Error
	return item, err
}

// FindLineByID loads one line by primary key.
func (r *Repository) FindLineByID(ctx context.Context, id uuid.UUID) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return item, err
}

// CreateLine inserts a new cart line.
func (r *Repository) CreateLine(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetQuantity updates a line's quantity in place.
func (r *Repository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).
		Error
}

// DeleteLine removes one line by primary key.
func (r *Repository) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id).Error
}

// DeleteAllForUser empties the user's cart.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, "user_id = ?", userID).Error
}

type lineRecord struct {
	ID          uuid.UUID       `gorm:"column:id"`
	ProductID   uuid.UUID       `gorm:"column:product_id"`
	ProductName string          `gorm:"column:product_name"`
	ProductSlug string          `gorm:"column:product_slug"`
	Price       decimal.Decimal `gorm:"column:price"`
	Quantity    int             `gorm:"column:quantity"`
	Stock       int             `gorm:"column:stock"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
}

// ListLines returns the user's lines in insertion order with product data
// resolved.
func (r *Repository) ListLines(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	var records []lineRecord
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.id, ci.product_id, p.name AS product_name, p.slug AS product_slug, p.price, ci.quantity, p.stock, ci.created_at").
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("ci.user_id = ?", userID).
		Order("ci.created_at ASC").
		Order("ci.id ASC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(records))
	for _, rec := range records {
		lines = append(lines, Line{
			ID:          rec.ID,
			ProductID:   rec.ProductID,
			ProductName: rec.ProductName,
			ProductSlug: rec.ProductSlug,
			Price:       rec.Price,
			Quantity:    rec.Quantity,
			Stock:       rec.Stock,
			LineTotal:   rec.Price.Mul(decimal.NewFromInt(int64(rec.Quantity))),
			CreatedAt:   rec.CreatedAt,
		})
	}
	return lines, nil
}
