// Package reservation performs conditional stock decrements during checkout.
package reservation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
)

// StockRequest asks for qty units of one product.
type StockRequest struct {
	CartItemID uuid.UUID
	ProductID  uuid.UUID
	Qty        int
}

// StockResult reports whether one request could be satisfied.
type StockResult struct {
	CartItemID uuid.UUID
	ProductID  uuid.UUID
	Qty        int
	Reserved   bool
	Reason     string
}

// ReserveStock decrements product stock for each request with a guarded
// update, so stock can never go below zero even under concurrent checkouts.
// A request is rejected, not errored, when stock is short; the caller decides
// whether a rejection fails the surrounding transaction.
func ReserveStock(ctx context.Context, tx *gorm.DB, requests []StockRequest) ([]StockResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction handle required")
	}

	for _, request := range requests {
		if request.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if request.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation qty must be at least 1")
		}
	}

	results := make([]StockResult, 0, len(requests))
	for _, request := range requests {
		res := tx.WithContext(ctx).Exec(
			`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
			request.Qty, request.ProductID, request.Qty,
		)
		if res.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve stock")
		}

		result := StockResult{
			CartItemID: request.CartItemID,
			ProductID:  request.ProductID,
			Qty:        request.Qty,
			Reserved:   res.RowsAffected == 1,
		}
		if !result.Reserved {
			result.Reason = "insufficient stock"
		}
		results = append(results, result)
	}
	return results, nil
}
