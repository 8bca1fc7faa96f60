package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	"github.com/adiwidodo/tokokita-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	orders := `
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
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func testAddress() types.ShippingAddress {
	return types.ShippingAddress{
		Name:       "Budi Santoso",
		Phone:      "081234567890",
		Address:    "Jl. Merdeka No. 1",
		City:       "Jakarta",
		Province:   "DKI Jakarta",
		PostalCode: "10110",
	}
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, created time.Time, itemQty int) *models.Order {
	t.Helper()

	order := Assemble(AssembleInput{
		UserID: userID,
		Items: []ItemSnapshot{
			{ProductID: uuid.New(), ProductName: "Test Product", Price: decimal.NewFromInt(10000), Quantity: itemQty},
		},
		ShippingAddress: testAddress(),
		ShippingService: "jne",
		PaymentMethod:   enums.PaymentMethodBankTransfer,
		Subtotal:        decimal.NewFromInt(int64(itemQty) * 10000),
		ShippingCost:    decimal.NewFromInt(15000),
		Total:           decimal.NewFromInt(int64(itemQty)*10000 + 15000),
		Now:             created,
	})
	order.CreatedAt = created
	order.UpdatedAt = created
	require.NoError(t, db.Create(order).Error)
	return order
}
