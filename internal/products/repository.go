package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence. All reads scope to active
// products; the only write is the stock decrement owned by checkout.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a product regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	return product, err
}

// FindActiveByID loads a product only if it is still purchasable.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).
		Error
	return product, err
}

type productRecord struct {
	ID           uuid.UUID       `gorm:"column:id"`
	CategoryID   uuid.UUID       `gorm:"column:category_id"`
	CategoryName string          `gorm:"column:category_name"`
	Name         string          `gorm:"column:name"`
	Slug         string          `gorm:"column:slug"`
	SKU          string          `gorm:"column:sku"`
	Price        decimal.Decimal `gorm:"column:price"`
	Stock        int             `gorm:"column:stock"`
	IsFeatured   bool            `gorm:"column:is_featured"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (rec productRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:           rec.ID,
		CategoryID:   rec.CategoryID,
		CategoryName: rec.CategoryName,
		Name:         rec.Name,
		Slug:         rec.Slug,
		SKU:          rec.SKU,
		Price:        rec.Price,
		Stock:        rec.Stock,
		IsFeatured:   rec.IsFeatured,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

const summaryColumns = "p.id, p.category_id, c.name AS category_name, p.name, p.slug, p.sku, p.price, p.stock, p.is_featured, p.created_at, p.updated_at"

func (r *Repository) baseListQuery(ctx context.Context, filter ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN categories c ON c.id = p.category_id").
		Where("p.is_active = ?", true)

	if filter.CategorySlug != "" {
		query = query.Where("c.slug = ?", filter.CategorySlug)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(p.name) LIKE ?", pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("p.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("p.price <= ?", *filter.MaxPrice)
	}
	return query
}

// List returns one catalog page. Cursor pagination applies to the latest
// ordering only; price and name sorts page by limit alone.
func (r *Repository) List(ctx context.Context, filter ListFilter) (ProductPage, error) {
	normalizedLimit := pagination.NormalizeLimit(filter.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filter.Limit)

	var total int64
	if err := r.baseListQuery(ctx, filter).Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	query := r.baseListQuery(ctx, filter).Select(summaryColumns)

	switch filter.Sort {
	case SortPriceLow:
		query = query.Order("p.price ASC").Order("p.id ASC").Limit(normalizedLimit)
	case SortPriceHigh:
		query = query.Order("p.price DESC").Order("p.id ASC").Limit(normalizedLimit)
	case SortName:
		query = query.Order("p.name ASC").Order("p.id ASC").Limit(normalizedLimit)
	default:
		decodedCursor, err := pagination.ParseCursor(filter.Cursor)
		if err != nil {
			return ProductPage{}, err
		}
		if decodedCursor != nil {
			query = query.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)",
				decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
		}
		query = query.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)
	}

	var records []productRecord
	if err := query.Scan(&records).Error; err != nil {
		return ProductPage{}, err
	}

	nextCursor := ""
	if filter.Sort == "" || filter.Sort == SortLatest {
		if len(records) > normalizedLimit {
			records = records[:normalizedLimit]
			last := records[len(records)-1]
			nextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
		}
	}

	items := make([]ProductSummary, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toSummary())
	}

	return ProductPage{
		Items:      items,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// ListFeatured returns the newest featured products.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]ProductSummary, error) {
	var records []productRecord
	err := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN categories c ON c.id = p.category_id").
		Select(summaryColumns).
		Where("p.is_active = ? AND p.is_featured = ?", true, true).
		Order("p.created_at DESC").
		Order("p.id DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ProductSummary, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toSummary())
	}
	return items, nil
}

type detailRecord struct {
	productRecord `gorm:"embedded"`
	Description   string          `gorm:"column:description"`
	Weight        decimal.Decimal `gorm:"column:weight"`
	AverageRating *float64        `gorm:"column:average_rating"`
	ReviewCount   int64           `gorm:"column:review_count"`
}

// FindDetailBySlug loads the product page view, review aggregates included.
func (r *Repository) FindDetailBySlug(ctx context.Context, slug string) (ProductDetail, error) {
	var rec detailRecord
	err := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN categories c ON c.id = p.category_id").
		Select(summaryColumns+", p.description, p.weight, "+
			"(SELECT AVG(rv.rating) FROM reviews rv WHERE rv.product_id = p.id) AS average_rating, "+
			"(SELECT COUNT(*) FROM reviews rv WHERE rv.product_id = p.id) AS review_count").
		Where("p.slug = ? AND p.is_active = ?", slug, true).
		Take(&rec).
		Error
	if err != nil {
		return ProductDetail{}, err
	}

	detail := ProductDetail{
		ProductSummary: rec.toSummary(),
		Description:    rec.Description,
		Weight:         rec.Weight,
		ReviewCount:    rec.ReviewCount,
	}
	if rec.AverageRating != nil {
		detail.AverageRating = *rec.AverageRating
	}
	return detail, nil
}
