package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/internal/products"
	"github.com/adiwidodo/tokokita-backend/pkg/db"
	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations for one authenticated user.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (Snapshot, error)
	UpdateQuantity(ctx context.Context, userID, cartItemID uuid.UUID, quantity int) (Snapshot, error)
	Remove(ctx context.Context, userID, cartItemID uuid.UUID) (Snapshot, error)
	GetSnapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     *Repository
	tx       txRunner
	products *products.Repository
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, productRepo *products.Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repository required")
	}
	return &service{repo: repo, tx: tx, products: productRepo}, nil
}

// Add merges quantity into the user's existing line for the product, creating
// the line when absent. The merged quantity is re-checked against current
// stock inside the transaction.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		product, err := productRepo.FindActiveByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		target := quantity
		existing, err := repo.FindLine(ctx, userID, productID)
		switch {
		case err == nil:
			target += existing.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		if target > product.Stock {
			return insufficientStock(product, target)
		}

		if existing.ID != uuid.Nil {
			return repo.SetQuantity(ctx, existing.ID, target)
		}
		err = repo.CreateLine(ctx, &models.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  target,
		})
		if err != nil {
			// A simultaneous first add for the same product won the insert
			// between our read and this write. The client retry merges.
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart line was just created, retry the add")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.GetSnapshot(ctx, userID)
}

// UpdateQuantity replaces a line's quantity. A line belonging to another user
// and a missing line produce the same error so ownership cannot be probed.
func (s *service) UpdateQuantity(ctx context.Context, userID, cartItemID uuid.UUID, quantity int) (Snapshot, error) {
	if quantity < 1 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		line, err := repo.FindLineByID(ctx, cartItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return foreignLineError()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}
		if line.UserID != userID {
			return foreignLineError()
		}

		product, err := productRepo.FindActiveByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		if quantity > product.Stock {
			return insufficientStock(product, quantity)
		}
		return repo.SetQuantity(ctx, line.ID, quantity)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.GetSnapshot(ctx, userID)
}

// Remove deletes a line. Removing an already-deleted line is a no-op;
// removing another user's line is Forbidden.
func (s *service) Remove(ctx context.Context, userID, cartItemID uuid.UUID) (Snapshot, error) {
	line, err := s.repo.FindLineByID(ctx, cartItemID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.GetSnapshot(ctx, userID)
	case err != nil:
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if line.UserID != userID {
		return Snapshot{}, foreignLineError()
	}

	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return s.GetSnapshot(ctx, userID)
}

// GetSnapshot renders the cart with resolved product data and subtotal.
func (s *service) GetSnapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	subtotal := decimal.Zero
	count := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
		count += line.Quantity
	}
	return Snapshot{
		Lines:     lines,
		Subtotal:  subtotal,
		ItemCount: count,
	}, nil
}

// Clear empties the user's cart. Checkout calls this inside its own
// transaction through a tx-bound repository.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func insufficientStock(product models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for "+product.Name).
		WithDetails(map[string]any{
			"product_id": product.ID,
			"requested":  requested,
			"available":  product.Stock,
		})
}

func foreignLineError() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "cart item does not belong to user")
}
