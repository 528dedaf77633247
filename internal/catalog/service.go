// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/core"
)

type ProductPage struct {
	Products   []ProductResponse
	Pagination core.Pagination
}

type Service struct {
	repo     Repository
	currency string
}

func NewService(repo Repository, currency string) *Service {
	return &Service{repo: repo, currency: currency}
}

// ListProducts resolves the category filter, then delegates filtering,
// sorting and paging to the repository. An unknown category is ignored.
func (s *Service) ListProducts(
	ctx context.Context,
	filter ProductFilter,
) (*ProductPage, error) {
	filter.Normalize()

	if filter.Category != "" {
		category, err := s.repo.GetCategory(ctx, filter.Category)
		switch {
		case err == nil:
			filter.CategoryID = category.ID
		case !errors.Is(err, core.ErrNotFound):
			return nil, fmt.Errorf("list products: %w", err)
		}
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:   toProductResponses(products, categories),
		Pagination: core.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// GetProduct looks a product up by slug first, then by id. Inactive
// products are invisible.
func (s *Service) GetProduct(
	ctx context.Context,
	key string,
) (*ProductDetailResponse, error) {
	product, err := s.repo.GetProductBySlug(ctx, key)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if product == nil || !product.Active {
		product, err = s.repo.GetProductByID(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	if !product.Active {
		return nil, fmt.Errorf("get product %q: %w", key, core.ErrProductNotFound)
	}

	related, err := s.repo.RelatedProducts(ctx, product.CategoryID, product.ID, RelatedLimit)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductDetailResponse{
		Product:         ToProductResponse(product, categories[product.CategoryID]),
		RelatedProducts: toProductResponses(related, categories),
	}, nil
}

func (s *Service) Featured(ctx context.Context, limit int) ([]ProductResponse, error) {
	products, err := s.repo.FeaturedProducts(ctx, clampLimit(limit, DefaultFeaturedLimit))
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	return toProductResponses(products, categories), nil
}

func (s *Service) Deals(ctx context.Context, limit int) ([]ProductResponse, error) {
	products, err := s.repo.DealProducts(ctx, clampLimit(limit, DefaultDealsLimit))
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	return toProductResponses(products, categories), nil
}

func (s *Service) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i], counts[categories[i].ID]))
	}

	return out, nil
}

func (s *Service) GetCategory(ctx context.Context, slugOrID string) (*CategoryResponse, error) {
	category, err := s.repo.GetCategory(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category, counts[category.ID])
	return &resp, nil
}

func (s *Service) CreateCategory(
	ctx context.Context,
	req CreateCategoryRequest,
) (*CategoryResponse, error) {
	category := &Category{
		ID:          uuid.New().String(),
		Slug:        normalizeSlug(req.Slug),
		Name:        strings.TrimSpace(req.Name),
		NameEn:      strings.TrimSpace(req.NameEn),
		Description: req.Description,
		Image:       req.Image,
		Icon:        req.Icon,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
		Active:      req.Active == nil || *req.Active,
	}

	if category.Slug == "" {
		return nil, core.ValidationError("slug is invalid")
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("category slug")
		}
		return nil, err
	}

	resp := ToCategoryResponse(category, 0)
	return &resp, nil
}

func (s *Service) CreateProduct(
	ctx context.Context,
	req CreateProductRequest,
) (*ProductResponse, error) {
	if err := validatePrices(req.Price, req.OriginalPrice); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ValidationError("category_id does not exist")
		}
		return nil, err
	}

	product := &Product{
		ID:               uuid.New().String(),
		Slug:             normalizeSlug(req.Slug),
		Name:             strings.TrimSpace(req.Name),
		NameEn:           strings.TrimSpace(req.NameEn),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		CategoryID:       category.ID,
		Price:            req.Price,
		Currency:         s.currency,
		Images:           core.NewJSONB(nonNil(req.Images)),
		Thumbnail:        req.Thumbnail,
		Stock:            req.Stock,
		SKU:              req.SKU,
		Brand:            req.Brand,
		Tags:             core.NewJSONB(nonNil(req.Tags)),
		Specifications:   core.NewJSONB(req.Specifications),
		Featured:         req.Featured,
		Active:           req.Active == nil || *req.Active,
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = decimal.NewNullDecimal(*req.OriginalPrice)
	}

	if product.Slug == "" {
		return nil, core.ValidationError("slug is invalid")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("product slug")
		}
		return nil, err
	}

	resp := ToProductResponse(product, category)
	return &resp, nil
}

func (s *Service) UpdateProduct(
	ctx context.Context,
	id string,
	req UpdateProductRequest,
) (*ProductResponse, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.NameEn != nil {
		product.NameEn = strings.TrimSpace(*req.NameEn)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		if req.OriginalPrice.IsZero() {
			product.OriginalPrice = decimal.NullDecimal{}
		} else {
			product.OriginalPrice = decimal.NewNullDecimal(*req.OriginalPrice)
		}
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Thumbnail != nil {
		product.Thumbnail = *req.Thumbnail
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	var original *decimal.Decimal
	if product.OriginalPrice.Valid {
		original = &product.OriginalPrice.Decimal
	}
	if err := validatePrices(product.Price, original); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, categories[product.CategoryID])
	return &resp, nil
}

func (s *Service) categoryIndex(ctx context.Context) (map[string]*Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*Category, len(categories))
	for i := range categories {
		index[categories[i].ID] = &categories[i]
	}

	return index, nil
}

func toProductResponses(products []Product, categories map[string]*Category) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i], categories[products[i].CategoryID]))
	}
	return out
}

func validatePrices(price decimal.Decimal, original *decimal.Decimal) error {
	if !price.IsPositive() {
		return core.ValidationError("price must be greater than 0")
	}
	if original != nil && original.IsNegative() {
		return core.ValidationError("original_price must not be negative")
	}
	return nil
}

func clampLimit(limit, fallback int) int {
	if limit < 1 {
		return fallback
	}
	return min(limit, MaxPageLimit)
}

func normalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	if strings.ContainsAny(s, "/?#%") {
		return ""
	}
	return s
}
