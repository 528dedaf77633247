// AngelaMos | 2026
// service_test.go

package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/store/memory"
)

func newService(t *testing.T) *catalog.Service {
	t.Helper()

	svc := catalog.NewService(memory.New().Catalog(), "SAR")
	for i, slug := range []string{"electronics", "fashion"} {
		_, err := svc.CreateCategory(context.Background(), catalog.CreateCategoryRequest{
			Slug:      slug,
			Name:      slug,
			SortOrder: i,
		})
		require.NoError(t, err)
	}
	return svc
}

func createProduct(
	t *testing.T,
	svc *catalog.Service,
	slug, category, price string,
	opts ...func(*catalog.CreateProductRequest),
) *catalog.ProductResponse {
	t.Helper()

	req := catalog.CreateProductRequest{
		Slug:       slug,
		Name:       slug,
		CategoryID: category,
		Price:      decimal.RequireFromString(price),
		Stock:      10,
	}
	for _, opt := range opts {
		opt(&req)
	}

	p, err := svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	return p
}

func original(v string) func(*catalog.CreateProductRequest) {
	return func(r *catalog.CreateProductRequest) {
		d := decimal.RequireFromString(v)
		r.OriginalPrice = &d
	}
}

func inactive(r *catalog.CreateProductRequest) {
	off := false
	r.Active = &off
}

func TestListProductsPagination(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	for i := range 12 {
		createProduct(t, svc, fmt.Sprintf("item-%02d", i), "electronics", "10")
	}

	page, err := svc.ListProducts(ctx, catalog.ProductFilter{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Products, 5)
	assert.Equal(t, core.Pagination{
		Page: 2, Limit: 5, Total: 12, Pages: 3, HasNext: true, HasPrev: true,
	}, page.Pagination)
}

func TestListProductsByCategorySlug(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	createProduct(t, svc, "phone", "electronics", "2000")
	createProduct(t, svc, "dress", "fashion", "300")
	createProduct(t, svc, "hidden", "fashion", "10", inactive)

	page, err := svc.ListProducts(ctx, catalog.ProductFilter{Category: "fashion"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "dress", page.Products[0].Slug)
	require.NotNil(t, page.Products[0].Category)
	assert.Equal(t, "fashion", page.Products[0].Category.Slug)

	page, err = svc.ListProducts(ctx, catalog.ProductFilter{Category: "no-such-category"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestListProductsPriceAscending(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	createProduct(t, svc, "mid", "electronics", "500")
	createProduct(t, svc, "cheap", "electronics", "5.50")
	createProduct(t, svc, "pricey", "electronics", "9000")

	page, err := svc.ListProducts(ctx, catalog.ProductFilter{
		Sort:  catalog.SortPrice,
		Order: catalog.OrderAsc,
	})
	require.NoError(t, err)

	slugs := make([]string, 0, len(page.Products))
	for _, p := range page.Products {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"cheap", "mid", "pricey"}, slugs)
}

func TestGetProductBySlugOrID(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	phone := createProduct(t, svc, "phone", "electronics", "2000")
	for i := range 6 {
		createProduct(t, svc, fmt.Sprintf("other-%d", i), "electronics", "10")
	}
	hidden := createProduct(t, svc, "hidden", "electronics", "10", inactive)

	bySlug, err := svc.GetProduct(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, phone.ID, bySlug.Product.ID)
	assert.Len(t, bySlug.RelatedProducts, catalog.RelatedLimit)
	for _, r := range bySlug.RelatedProducts {
		assert.NotEqual(t, phone.ID, r.ID)
	}

	byID, err := svc.GetProduct(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, "phone", byID.Product.Slug)

	_, err = svc.GetProduct(ctx, hidden.ID)
	assert.ErrorIs(t, err, core.ErrProductNotFound)

	_, err = svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDealsOrdering(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	createProduct(t, svc, "ten", "electronics", "90", original("100"))
	createProduct(t, svc, "full-price", "electronics", "100")
	createProduct(t, svc, "half", "electronics", "50", original("100"))
	createProduct(t, svc, "quarter", "electronics", "300", original("400"))

	deals, err := svc.Deals(ctx, 0)
	require.NoError(t, err)

	require.Len(t, deals, 3)
	assert.Equal(t, "half", deals[0].Slug)
	assert.Equal(t, 50, deals[0].DiscountPercent)
	assert.Equal(t, "quarter", deals[1].Slug)
	assert.Equal(t, "ten", deals[2].Slug)
}

func TestCategoryCounts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	createProduct(t, svc, "phone", "electronics", "2000")
	createProduct(t, svc, "tablet", "electronics", "1500")
	createProduct(t, svc, "hidden", "electronics", "10", inactive)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "electronics", categories[0].Slug)
	assert.Equal(t, 2, categories[0].ProductCount)
	assert.Equal(t, "fashion", categories[1].Slug)
	assert.Equal(t, 0, categories[1].ProductCount)

	byID, err := svc.GetCategory(ctx, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, byID.ProductCount)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	createProduct(t, svc, "phone", "electronics", "2000")

	_, err := svc.CreateProduct(ctx, catalog.CreateProductRequest{
		Slug: "zero", Name: "Zero", CategoryID: "electronics", Price: decimal.Zero,
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.CreateProduct(ctx, catalog.CreateProductRequest{
		Slug: "orphan", Name: "Orphan", CategoryID: "nowhere", Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.CreateProduct(ctx, catalog.CreateProductRequest{
		Slug: "phone", Name: "Phone again", CategoryID: "electronics", Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestUpdateProductClearsOriginalPrice(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	p := createProduct(t, svc, "phone", "electronics", "300", original("400"))
	assert.Equal(t, 25, p.DiscountPercent)

	zero := decimal.Zero
	stock := 3
	updated, err := svc.UpdateProduct(ctx, p.ID, catalog.UpdateProductRequest{
		OriginalPrice: &zero,
		Stock:         &stock,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.OriginalPrice)
	assert.Equal(t, 0, updated.DiscountPercent)
	assert.Equal(t, 3, updated.Stock)

	deals, err := svc.Deals(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, deals)
}
