// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	NameEn       string `json:"name_en"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
	SortOrder    int    `json:"sort_order"`
	ProductCount int    `json:"product_count"`
}

type ProductResponse struct {
	ID               string            `json:"id"`
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	NameEn           string            `json:"name_en"`
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"short_description,omitempty"`
	CategoryID       string            `json:"category_id"`
	Category         *CategoryRef      `json:"category,omitempty"`
	Price            decimal.Decimal   `json:"price"`
	OriginalPrice    *decimal.Decimal  `json:"original_price,omitempty"`
	DiscountPercent  int               `json:"discount_percent"`
	Currency         string            `json:"currency"`
	Images           []string          `json:"images"`
	Thumbnail        string            `json:"thumbnail,omitempty"`
	Stock            int               `json:"stock"`
	SKU              string            `json:"sku,omitempty"`
	Brand            string            `json:"brand,omitempty"`
	Tags             []string          `json:"tags"`
	Specifications   map[string]string `json:"specifications,omitempty"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"review_count"`
	SoldCount        int               `json:"sold_count"`
	Featured         bool              `json:"is_featured"`
	Active           bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

type ProductDetailResponse struct {
	Product         ProductResponse   `json:"product"`
	RelatedProducts []ProductResponse `json:"related_products"`
}

type CreateCategoryRequest struct {
	Slug        string `json:"slug"        validate:"required,max=120"`
	Name        string `json:"name"        validate:"required,max=120"`
	NameEn      string `json:"name_en"     validate:"omitempty,max=120"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Image       string `json:"image"       validate:"omitempty,max=500"`
	Icon        string `json:"icon"        validate:"omitempty,max=32"`
	Color       string `json:"color"       validate:"omitempty,max=16"`
	SortOrder   int    `json:"sort_order"  validate:"gte=0"`
	Active      *bool  `json:"is_active"`
}

type CreateProductRequest struct {
	Slug             string            `json:"slug"              validate:"required,max=200"`
	Name             string            `json:"name"              validate:"required,max=200"`
	NameEn           string            `json:"name_en"           validate:"omitempty,max=200"`
	Description      string            `json:"description"       validate:"omitempty,max=5000"`
	ShortDescription string            `json:"short_description" validate:"omitempty,max=500"`
	CategoryID       string            `json:"category_id"       validate:"required"`
	Price            decimal.Decimal   `json:"price"`
	OriginalPrice    *decimal.Decimal  `json:"original_price"`
	Images           []string          `json:"images"            validate:"omitempty,max=20"`
	Thumbnail        string            `json:"thumbnail"         validate:"omitempty,max=500"`
	Stock            int               `json:"stock"             validate:"gte=0"`
	SKU              string            `json:"sku"               validate:"omitempty,max=64"`
	Brand            string            `json:"brand"             validate:"omitempty,max=100"`
	Tags             []string          `json:"tags"              validate:"omitempty,max=50"`
	Specifications   map[string]string `json:"specifications"`
	Featured         bool              `json:"is_featured"`
	Active           *bool             `json:"is_active"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	NameEn        *string          `json:"name_en,omitempty"     validate:"omitempty,max=200"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Stock         *int             `json:"stock,omitempty"       validate:"omitempty,gte=0"`
	Thumbnail     *string          `json:"thumbnail,omitempty"   validate:"omitempty,max=500"`
	Featured      *bool            `json:"is_featured,omitempty"`
	Active        *bool            `json:"is_active,omitempty"`
}

func ToProductResponse(p *Product, category *Category) ProductResponse {
	resp := ProductResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		NameEn:           p.NameEn,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		CategoryID:       p.CategoryID,
		Price:            p.Price,
		DiscountPercent:  p.DiscountPercent(),
		Currency:         p.Currency,
		Images:           nonNil(p.Images.V),
		Thumbnail:        p.Thumbnail,
		Stock:            p.Stock,
		SKU:              p.SKU,
		Brand:            p.Brand,
		Tags:             nonNil(p.Tags.V),
		Specifications:   p.Specifications.V,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		SoldCount:        p.SoldCount,
		Featured:         p.Featured,
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
	}

	if p.OriginalPrice.Valid {
		op := p.OriginalPrice.Decimal
		resp.OriginalPrice = &op
	}

	if category != nil {
		resp.Category = &CategoryRef{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
		}
	}

	return resp
}

func ToCategoryResponse(c *Category, productCount int) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Slug:         c.Slug,
		Name:         c.Name,
		NameEn:       c.NameEn,
		Description:  c.Description,
		Image:        c.Image,
		Icon:         c.Icon,
		Color:        c.Color,
		SortOrder:    c.SortOrder,
		ProductCount: productCount,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
