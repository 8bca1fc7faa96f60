package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db"
	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists the order header and its items in one insert batch.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateWithFreshNumber persists the order, regenerating the display number
// when it collides with an existing one. maxRetries bounds how many fresh
// numbers are attempted before giving up. Each attempt runs in a nested
// transaction so a unique violation rolls back to a savepoint instead of
// aborting the enclosing checkout transaction on Postgres.
func (r *Repository) CreateWithFreshNumber(ctx context.Context, order *models.Order, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			order.OrderNumber = NewOrderNumber(time.Now().UTC())
		}
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(order).Error
		})
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, "") {
			return err
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision persists")
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.created_at ASC, order_items.id ASC")
		}).
		First(&order, "id = ?", id).
		Error
	return order, err
}

type summaryRecord struct {
	ID            uuid.UUID           `gorm:"column:id"`
	OrderNumber   string              `gorm:"column:order_number"`
	Status        enums.OrderStatus   `gorm:"column:status"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status"`
	Total         decimal.Decimal     `gorm:"column:total"`
	ItemCount     int                 `gorm:"column:item_count"`
	CreatedAt     time.Time           `gorm:"column:created_at"`
}

// ListByUser returns the user's orders newest first with cursor pagination.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.id, o.order_number, o.status, o.payment_status, o.total, o.created_at, "+
			"(SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = o.id) AS item_count").
		Where("o.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(o.created_at < ?) OR (o.created_at = ? AND o.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []summaryRecord
	if err := query.
		Order("o.created_at DESC").
		Order("o.id DESC").
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
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error; err != nil {
		return PageDTO{}, err
	}

	summaries := make([]SummaryDTO, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, SummaryDTO{
			ID:            rec.ID,
			OrderNumber:   rec.OrderNumber,
			Status:        rec.Status,
			PaymentStatus: rec.PaymentStatus,
			Total:         rec.Total,
			ItemCount:     rec.ItemCount,
			CreatedAt:     rec.CreatedAt,
		})
	}

	return PageDTO{
		Orders:     summaries,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// CountPurchased reports how many units of a product the user has bought
// across all their orders. Reviews use it to mark verified purchases.
func (r *Repository) CountPurchased(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.user_id = ? AND oi.product_id = ?", userID, productID).
		Count(&count).
		Error
	return count, err
}
