package products

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  weight NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	reviews := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  is_verified_purchase INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(reviews).Error)
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		Slug:     slug,
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

type productSeed struct {
	name     string
	slug     string
	price    int64
	stock    int
	featured bool
	active   bool
	created  time.Time
}

func newProduct(t *testing.T, db *gorm.DB, category *models.Category, seed productSeed) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  category.ID,
		Name:        seed.name,
		Slug:        seed.slug,
		SKU:         "SKU-" + seed.slug,
		Description: seed.name + " description",
		Price:       decimal.NewFromInt(seed.price),
		Stock:       seed.stock,
		IsActive:    seed.active,
		IsFeatured:  seed.featured,
		CreatedAt:   seed.created,
		UpdatedAt:   seed.created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newReview(t *testing.T, db *gorm.DB, productID uuid.UUID, rating int) {
	t.Helper()

	review := &models.Review{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: productID,
		Rating:    rating,
	}
	require.NoError(t, db.Create(review).Error)
}
