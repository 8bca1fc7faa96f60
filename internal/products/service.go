package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
)

// Service exposes the catalog read side.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) (ProductPage, error)
	ListFeatured(ctx context.Context, limit int) ([]ProductSummary, error)
	GetProductBySlug(ctx context.Context, slug string) (ProductDetail, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service over the given repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (ProductPage, error) {
	if filter.Sort != "" {
		switch filter.Sort {
		case SortLatest, SortPriceLow, SortPriceHigh, SortName:
		default:
			return ProductPage{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort "+filter.Sort)
		}
	}
	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

func (s *service) ListFeatured(ctx context.Context, limit int) ([]ProductSummary, error) {
	items, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return items, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (ProductDetail, error) {
	detail, err := s.repo.FindDetailBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDetail{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDetail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return detail, nil
}
