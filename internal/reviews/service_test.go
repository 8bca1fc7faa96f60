package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/internal/orders"
	"github.com/adiwidodo/tokokita-backend/internal/products"
	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
	"github.com/adiwidodo/tokokita-backend/pkg/types"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reviews_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  shipping_address TEXT,
  shipping_service TEXT NOT NULL,
  tracking_number TEXT,
  notes TEXT,
  shipped_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME
);`, `
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
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newReviewService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), products.NewRepository(db), orders.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Email:    "user-" + uuid.NewString() + "@example.com",
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedReviewProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: "Review Cat", Slug: "rev-cat-" + uuid.NewString(), IsActive: true}
	require.NoError(t, db.Create(category).Error)

	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  category.ID,
		Name:        name,
		Slug:        "rev-" + uuid.NewString(),
		SKU:         "REV-" + uuid.NewString(),
		Description: name + " description",
		Price:       decimal.NewFromInt(35000),
		Stock:       5,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedPurchase(t *testing.T, db *gorm.DB, userID, productID uuid.UUID) {
	t.Helper()

	order := orders.Assemble(orders.AssembleInput{
		UserID: userID,
		Items: []orders.ItemSnapshot{
			{ProductID: productID, ProductName: "Bought", Price: decimal.NewFromInt(35000), Quantity: 1},
		},
		ShippingAddress: types.ShippingAddress{
			Name: "Reviewer", Phone: "0811", Address: "Jl. Uji", City: "Solo", Province: "Jawa Tengah", PostalCode: "57100",
		},
		ShippingService: "jne",
		PaymentMethod:   enums.PaymentMethodDana,
		Subtotal:        decimal.NewFromInt(35000),
		ShippingCost:    decimal.NewFromInt(15000),
		Total:           decimal.NewFromInt(50000),
	})
	require.NoError(t, db.Create(order).Error)
}

func TestCreateReview_verifiedPurchaseDerived(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)

	buyer := seedUser(t, db, "Pembeli")
	browser := seedUser(t, db, "Pengunjung")
	product := seedReviewProduct(t, db, "Sepatu Kulit")
	seedPurchase(t, db, buyer.ID, product.ID)

	bought, err := svc.CreateReview(context.Background(), buyer.ID, CreateInput{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)
	assert.True(t, bought.IsVerifiedPurchase)

	browsed, err := svc.CreateReview(context.Background(), browser.ID, CreateInput{ProductID: product.ID, Rating: 3})
	require.NoError(t, err)
	assert.False(t, browsed.IsVerifiedPurchase)
}

func TestCreateReview_secondReviewConflicts(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)

	user := seedUser(t, db, "Sekali")
	product := seedReviewProduct(t, db, "Dompet")

	_, err := svc.CreateReview(context.Background(), user.ID, CreateInput{ProductID: product.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), user.ID, CreateInput{ProductID: product.ID, Rating: 2})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestCreateReview_ratingBounds(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)

	user := seedUser(t, db, "Penilai")
	product := seedReviewProduct(t, db, "Topi")

	for _, rating := range []int{0, 6} {
		_, err := svc.CreateReview(context.Background(), user.ID, CreateInput{ProductID: product.ID, Rating: rating})
		require.Error(t, err)

		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestCreateReview_missingProduct(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)

	user := seedUser(t, db, "Hilang")

	_, err := svc.CreateReview(context.Background(), user.ID, CreateInput{ProductID: uuid.New(), Rating: 4})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListByProductSlug_newestFirst(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)

	older := seedUser(t, db, "Pertama")
	newer := seedUser(t, db, "Kedua")
	product := seedReviewProduct(t, db, "Jam Tangan")

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.Review{ID: uuid.New(), UserID: older.ID, ProductID: product.ID, Rating: 4, CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Review{ID: uuid.New(), UserID: newer.ID, ProductID: product.ID, Rating: 5, CreatedAt: now}).Error)

	page, err := svc.ListByProductSlug(context.Background(), product.Slug, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, "Kedua", page.Reviews[0].UserName)
	assert.Equal(t, "Pertama", page.Reviews[1].UserName)
	assert.Equal(t, int64(2), page.Total)
}

func TestListByProductSlug_missingProduct(t *testing.T) {
	db := setupReviewsTestDB(t)
	svc := newReviewService(t, db)

	_, err := svc.ListByProductSlug(context.Background(), "tidak-ada", pagination.Params{Limit: 10})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
