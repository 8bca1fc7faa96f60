package products

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryList_cursorPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Pagination", "pagination-cat")
	now := time.Now().UTC()
	newProduct(t, db, category, productSeed{name: "Oldest", slug: "pag-oldest", price: 1000, stock: 5, active: true, created: now.Add(-2 * time.Hour)})
	newProduct(t, db, category, productSeed{name: "Middle", slug: "pag-middle", price: 2000, stock: 5, active: true, created: now.Add(-time.Hour)})
	newProduct(t, db, category, productSeed{name: "Newest", slug: "pag-newest", price: 3000, stock: 5, active: true, created: now})

	first, err := repo.List(context.Background(), ListFilter{CategorySlug: "pagination-cat", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "Newest", first.Items[0].Name)
	assert.Equal(t, "Middle", first.Items[1].Name)
	assert.Equal(t, int64(3), first.Total)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(context.Background(), ListFilter{CategorySlug: "pagination-cat", Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Oldest", second.Items[0].Name)
	assert.Empty(t, second.NextCursor)
}

func TestRepositoryList_excludesInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Visibility", "visibility-cat")
	now := time.Now().UTC()
	newProduct(t, db, category, productSeed{name: "Visible", slug: "vis-on", price: 1000, stock: 5, active: true, created: now})
	newProduct(t, db, category, productSeed{name: "Hidden", slug: "vis-off", price: 1000, stock: 5, active: false, created: now})

	page, err := repo.List(context.Background(), ListFilter{CategorySlug: "visibility-cat", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Visible", page.Items[0].Name)
}

func TestRepositoryList_searchAndPriceRange(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Search", "search-cat")
	now := time.Now().UTC()
	newProduct(t, db, category, productSeed{name: "Kopi Gayo", slug: "search-gayo", price: 85000, stock: 5, active: true, created: now})
	newProduct(t, db, category, productSeed{name: "Kopi Toraja", slug: "search-toraja", price: 120000, stock: 5, active: true, created: now.Add(-time.Minute)})
	newProduct(t, db, category, productSeed{name: "Teh Melati", slug: "search-teh", price: 30000, stock: 5, active: true, created: now.Add(-2 * time.Minute)})

	page, err := repo.List(context.Background(), ListFilter{CategorySlug: "search-cat", Search: "KOPI", Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	minPrice := decimal.NewFromInt(50000)
	maxPrice := decimal.NewFromInt(100000)
	page, err = repo.List(context.Background(), ListFilter{CategorySlug: "search-cat", MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Kopi Gayo", page.Items[0].Name)
}

func TestRepositoryList_sortByPrice(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Sorting", "sorting-cat")
	now := time.Now().UTC()
	newProduct(t, db, category, productSeed{name: "Cheap", slug: "sort-cheap", price: 1000, stock: 5, active: true, created: now})
	newProduct(t, db, category, productSeed{name: "Pricey", slug: "sort-pricey", price: 9000, stock: 5, active: true, created: now.Add(-time.Minute)})

	page, err := repo.List(context.Background(), ListFilter{CategorySlug: "sorting-cat", Sort: SortPriceLow, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Cheap", page.Items[0].Name)

	page, err = repo.List(context.Background(), ListFilter{CategorySlug: "sorting-cat", Sort: SortPriceHigh, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "Pricey", page.Items[0].Name)
}

func TestRepositoryListFeatured(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Featured", "featured-cat")
	now := time.Now().UTC()
	featured := newProduct(t, db, category, productSeed{name: "Star", slug: "featured-star", price: 1000, stock: 5, active: true, featured: true, created: now})
	newProduct(t, db, category, productSeed{name: "Plain", slug: "featured-plain", price: 1000, stock: 5, active: true, created: now})

	items, err := repo.ListFeatured(context.Background(), 50)
	require.NoError(t, err)

	found := false
	for _, item := range items {
		require.True(t, item.IsFeatured)
		if item.ID == featured.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRepositoryFindDetailBySlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	category := newCategory(t, db, "Detail", "detail-cat")
	product := newProduct(t, db, category, productSeed{name: "Detailed", slug: "detail-product", price: 45000, stock: 3, active: true, created: time.Now().UTC()})
	newReview(t, db, product.ID, 4)
	newReview(t, db, product.ID, 5)

	detail, err := repo.FindDetailBySlug(context.Background(), "detail-product")
	require.NoError(t, err)
	assert.Equal(t, product.ID, detail.ID)
	assert.Equal(t, "Detail", detail.CategoryName)
	assert.Equal(t, int64(2), detail.ReviewCount)
	assert.InDelta(t, 4.5, detail.AverageRating, 0.0001)
	assert.True(t, detail.Price.Equal(decimal.NewFromInt(45000)))
}

func TestRepositoryFindDetailBySlug_missing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindDetailBySlug(context.Background(), "no-such-product")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
