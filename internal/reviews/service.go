package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwidodo/tokokita-backend/internal/orders"
	"github.com/adiwidodo/tokokita-backend/internal/products"
	"github.com/adiwidodo/tokokita-backend/pkg/db"
	"github.com/adiwidodo/tokokita-backend/pkg/db/models"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/pagination"
)

// Service exposes review submission and listing.
type Service interface {
	CreateReview(ctx context.Context, userID uuid.UUID, input CreateInput) (ReviewDTO, error)
	ListByProductSlug(ctx context.Context, slug string, params pagination.Params) (PageDTO, error)
}

type service struct {
	reviewRepo  *Repository
	productRepo *products.Repository
	orderRepo   *orders.Repository
}

// NewService builds a review service with the required dependencies.
func NewService(reviewRepo *Repository, productRepo *products.Repository, orderRepo *orders.Repository) (Service, error) {
	if reviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if orderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}, nil
}

// CreateReview stores one review per (user, product). Verified purchase is
// derived from the user's order history, never taken from the client.
func (s *service) CreateReview(ctx context.Context, userID uuid.UUID, input CreateInput) (ReviewDTO, error) {
	if userID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	purchased, err := s.orderRepo.CountPurchased(ctx, userID, input.ProductID)
	if err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	review := &models.Review{
		ID:                 uuid.New(),
		UserID:             userID,
		ProductID:          input.ProductID,
		Rating:             input.Rating,
		Comment:            input.Comment,
		IsVerifiedPurchase: purchased > 0,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "") {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already reviewed")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	return ReviewDTO{
		ID:                 review.ID,
		UserID:             review.UserID,
		Rating:             review.Rating,
		Comment:            review.Comment,
		IsVerifiedPurchase: review.IsVerifiedPurchase,
		CreatedAt:          review.CreatedAt,
	}, nil
}

// ListByProductSlug returns the product's reviews newest first.
func (s *service) ListByProductSlug(ctx context.Context, slug string, params pagination.Params) (PageDTO, error) {
	detail, err := s.productRepo.FindDetailBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	page, err := s.reviewRepo.ListByProduct(ctx, detail.ID, params)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return page, nil
}
