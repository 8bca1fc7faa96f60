package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/adiwidodo/tokokita-backend/api/responses"
	productsvc "github.com/adiwidodo/tokokita-backend/internal/products"
	pkgerrors "github.com/adiwidodo/tokokita-backend/pkg/errors"
	"github.com/adiwidodo/tokokita-backend/pkg/logger"
)

// ListProducts handles the public catalog listing with filters, sorting and
// cursor pagination.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// FeaturedProducts handles the storefront's featured shelf.
func FeaturedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListFeatured(r.Context(), params.Limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// GetProductBySlug handles the product detail page.
func GetProductBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug required"))
			return
		}

		detail, err := svc.GetProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

func listFilterFromQuery(r *http.Request) (productsvc.ListFilter, error) {
	query := r.URL.Query()

	params, err := paginationParams(r)
	if err != nil {
		return productsvc.ListFilter{}, err
	}

	filter := productsvc.ListFilter{
		CategorySlug: strings.TrimSpace(query.Get("category")),
		Search:       strings.TrimSpace(query.Get("search")),
		Sort:         strings.TrimSpace(query.Get("sort")),
		Cursor:       params.Cursor,
		Limit:        params.Limit,
	}

	if raw := strings.TrimSpace(query.Get("min_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			return productsvc.ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "min_price must be a non-negative number")
		}
		filter.MinPrice = &price
	}

	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			return productsvc.ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "max_price must be a non-negative number")
		}
		filter.MaxPrice = &price
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return productsvc.ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}

	return filter, nil
}
