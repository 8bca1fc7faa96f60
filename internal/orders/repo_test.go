package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	"github.com/adiwidodo/tokokita-backend/pkg/enums"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	order := seedOrder(t, db, userID, time.Now().UTC(), 2)

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, loaded.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, loaded.Status)
	assert.Equal(t, enums.PaymentStatusPending, loaded.PaymentStatus)
	assert.Equal(t, "Jakarta", loaded.ShippingAddress.City)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Test Product", loaded.Items[0].ProductName)
	assert.True(t, loaded.Items[0].Total.Equal(decimal.NewFromInt(20000)))
}

func TestRepositoryCreateWithFreshNumber_retriesOnCollision(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	existing := seedOrder(t, db, userID, time.Now().UTC(), 1)

	colliding := Assemble(AssembleInput{
		UserID:          userID,
		Items:           []ItemSnapshot{{ProductID: uuid.New(), ProductName: "Another", Price: decimal.NewFromInt(5000), Quantity: 1}},
		ShippingAddress: testAddress(),
		ShippingService: "pos",
		PaymentMethod:   enums.PaymentMethodGoPay,
		Subtotal:        decimal.NewFromInt(5000),
		ShippingCost:    decimal.NewFromInt(10000),
		Total:           decimal.NewFromInt(15000),
	})
	colliding.OrderNumber = existing.OrderNumber

	require.NoError(t, repo.CreateWithFreshNumber(context.Background(), colliding, 3))
	assert.NotEqual(t, existing.OrderNumber, colliding.OrderNumber)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRepositoryCreateWithFreshNumber_collisionKeepsEnclosingTxAlive(t *testing.T) {
	db := setupOrdersTestDB(t)

	userID := uuid.New()
	existing := seedOrder(t, db, userID, time.Now().UTC(), 1)

	colliding := Assemble(AssembleInput{
		UserID:          userID,
		Items:           []ItemSnapshot{{ProductID: uuid.New(), ProductName: "Another", Price: decimal.NewFromInt(5000), Quantity: 1}},
		ShippingAddress: testAddress(),
		ShippingService: "pos",
		PaymentMethod:   enums.PaymentMethodGoPay,
		Subtotal:        decimal.NewFromInt(5000),
		ShippingCost:    decimal.NewFromInt(10000),
		Total:           decimal.NewFromInt(15000),
	})
	colliding.OrderNumber = existing.OrderNumber

	// The failed first attempt must roll back to its savepoint only; the
	// outer transaction has to stay writable for the rest of checkout.
	notes := "written after the retry"
	err := db.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.CreateWithFreshNumber(context.Background(), colliding, 3); err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", colliding.ID).Update("notes", notes).Error
	})
	require.NoError(t, err)
	assert.NotEqual(t, existing.OrderNumber, colliding.OrderNumber)

	var loaded models.Order
	require.NoError(t, db.First(&loaded, "id = ?", colliding.ID).Error)
	require.NotNil(t, loaded.Notes)
	assert.Equal(t, notes, *loaded.Notes)
}

func TestRepositoryListByUser_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	seedOrder(t, db, userID, now.Add(-2*time.Hour), 1)
	middle := seedOrder(t, db, userID, now.Add(-time.Hour), 2)
	newest := seedOrder(t, db, userID, now, 3)
	seedOrder(t, db, uuid.New(), now, 1) // someone else's order

	page, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, newest.ID, page.Orders[0].ID)
	assert.Equal(t, middle.ID, page.Orders[1].ID)
	assert.Equal(t, 3, page.Orders[0].ItemCount)
	assert.Equal(t, int64(3), page.Total)
	require.NotEmpty(t, page.NextCursor)

	second, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryCountPurchased(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	productID := uuid.New()

	order := Assemble(AssembleInput{
		UserID:          userID,
		Items:           []ItemSnapshot{{ProductID: productID, ProductName: "Bought", Price: decimal.NewFromInt(10000), Quantity: 2}},
		ShippingAddress: testAddress(),
		ShippingService: "jnt",
		PaymentMethod:   enums.PaymentMethodOVO,
		Subtotal:        decimal.NewFromInt(20000),
		ShippingCost:    decimal.NewFromInt(12000),
		Total:           decimal.NewFromInt(32000),
	})
	require.NoError(t, db.Create(order).Error)

	count, err := repo.CountPurchased(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountPurchased(context.Background(), userID, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}
