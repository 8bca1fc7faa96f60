package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	productsvc "github.com/adiwidodo/tokokita-backend/internal/products"
)

type stubProductService struct {
	page     productsvc.ProductPage
	featured []productsvc.ProductSummary
	detail   productsvc.ProductDetail
	err      error

	gotFilter productsvc.ListFilter
}

func (s *stubProductService) ListProducts(ctx context.Context, filter productsvc.ListFilter) (productsvc.ProductPage, error) {
	s.gotFilter = filter
	return s.page, s.err
}

func (s *stubProductService) ListFeatured(ctx context.Context, limit int) ([]productsvc.ProductSummary, error) {
	return s.featured, s.err
}

func (s *stubProductService) GetProductBySlug(ctx context.Context, slug string) (productsvc.ProductDetail, error) {
	return s.detail, s.err
}

func TestListProductsParsesFilters(t *testing.T) {
	t.Parallel()

	svc := &stubProductService{}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=kopi&search=gayo&min_price=10000&max_price=90000&sort=price_low&limit=5", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotFilter.CategorySlug != "kopi" || svc.gotFilter.Search != "gayo" {
		t.Fatalf("unexpected filter: %+v", svc.gotFilter)
	}
	if svc.gotFilter.Sort != productsvc.SortPriceLow || svc.gotFilter.Limit != 5 {
		t.Fatalf("unexpected sort/limit: %+v", svc.gotFilter)
	}
	if svc.gotFilter.MinPrice == nil || !svc.gotFilter.MinPrice.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected min price 10000 got %v", svc.gotFilter.MinPrice)
	}
	if svc.gotFilter.MaxPrice == nil || !svc.gotFilter.MaxPrice.Equal(decimal.NewFromInt(90000)) {
		t.Fatalf("expected max price 90000 got %v", svc.gotFilter.MaxPrice)
	}
}

func TestListProductsRejectsBadPriceRange(t *testing.T) {
	t.Parallel()

	handler := ListProducts(&stubProductService{}, nil)

	for _, target := range []string{
		"/api/v1/products?min_price=abc",
		"/api/v1/products?max_price=-5",
		"/api/v1/products?min_price=100&max_price=50",
		"/api/v1/products?limit=0",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, resp.Code)
		}
	}
}

func TestGetProductBySlugMissingSlug(t *testing.T) {
	t.Parallel()

	handler := GetProductBySlug(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/x", nil)
	req = withURLParam(req, "slug", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetProductBySlugSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubProductService{detail: productsvc.ProductDetail{
		ProductSummary: productsvc.ProductSummary{
			Name: "Kopi Gayo",
			Slug: "kopi-gayo",
		},
		AverageRating: 4.5,
		ReviewCount:   2,
	}}
	handler := GetProductBySlug(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/kopi-gayo", nil)
	req = withURLParam(req, "slug", "kopi-gayo")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload struct {
		Data struct {
			Slug          string  `json:"slug"`
			AverageRating float64 `json:"average_rating"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.Slug != "kopi-gayo" || payload.Data.AverageRating != 4.5 {
		t.Fatalf("unexpected payload: %+v", payload.Data)
	}
}
