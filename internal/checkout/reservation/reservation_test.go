package reservation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reservation_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  weight NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedStock(t *testing.T, db *gorm.DB, stock int) uuid.UUID {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  uuid.New(),
		Name:        "Reserved Product",
		Slug:        "reserve-" + uuid.NewString(),
		SKU:         "RSV-" + uuid.NewString(),
		Description: "stock fixture",
		Price:       decimal.NewFromInt(10000),
		Stock:       stock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)
	return product.ID
}

func currentStock(t *testing.T, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func TestReserveStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	productA := seedStock(t, db, 5)
	productB := seedStock(t, db, 1)

	requests := []StockRequest{
		{CartItemID: uuid.New(), ProductID: productA, Qty: 3},
		{CartItemID: uuid.New(), ProductID: productA, Qty: 4},
		{CartItemID: uuid.New(), ProductID: productB, Qty: 1},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := ReserveStock(ctx, tx, requests)
		require.NoError(t, terr)
		require.Len(t, results, 3)
		assert.True(t, results[0].Reserved)
		assert.Empty(t, results[0].Reason)
		assert.False(t, results[1].Reserved)
		assert.NotEmpty(t, results[1].Reason)
		assert.True(t, results[2].Reserved)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, currentStock(t, db, productA))
	assert.Equal(t, 0, currentStock(t, db, productB))
}

func TestReserveStockNeverGoesNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	productID := seedStock(t, db, 1)

	// two buyers racing over stock=1: exactly one reservation lands
	reserved := 0
	for i := 0; i < 2; i++ {
		results, err := ReserveStock(ctx, db, []StockRequest{{CartItemID: uuid.New(), ProductID: productID, Qty: 1}})
		require.NoError(t, err)
		if results[0].Reserved {
			reserved++
		}
	}
	assert.Equal(t, 1, reserved)
	assert.Equal(t, 0, currentStock(t, db, productID))
}

func TestReserveStockRollbackRestores(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	productID := seedStock(t, db, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		results, terr := ReserveStock(ctx, tx, []StockRequest{{CartItemID: uuid.New(), ProductID: productID, Qty: 3}})
		require.NoError(t, terr)
		require.True(t, results[0].Reserved)
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "force rollback")
	})
	require.Error(t, err)

	assert.Equal(t, 5, currentStock(t, db, productID))
}

func TestReserveStockInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	_, err := ReserveStock(context.Background(), db, []StockRequest{{ProductID: uuid.New(), Qty: 0}})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestReserveStockUnknownProductRejected(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	results, err := ReserveStock(context.Background(), db, []StockRequest{{CartItemID: uuid.New(), ProductID: uuid.New(), Qty: 1}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Reserved)
}
