// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/core"
)

type Category struct {
	ID          string    `db:"id"`
	Slug        string    `db:"slug"`
	Name        string    `db:"name"`
	NameEn      string    `db:"name_en"`
	Description string    `db:"description"`
	Image       string    `db:"image"`
	Icon        string    `db:"icon"`
	Color       string    `db:"color"`
	SortOrder   int       `db:"sort_order"`
	Active      bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

type Product struct {
	ID               string                        `db:"id"`
	Slug             string                        `db:"slug"`
	Name             string                        `db:"name"`
	NameEn           string                        `db:"name_en"`
	Description      string                        `db:"description"`
	ShortDescription string                        `db:"short_description"`
	CategoryID       string                        `db:"category_id"`
	Price            decimal.Decimal               `db:"price"`
	OriginalPrice    decimal.NullDecimal           `db:"original_price"`
	Currency         string                        `db:"currency"`
	Images           core.JSONB[[]string]          `db:"images"`
	Thumbnail        string                        `db:"thumbnail"`
	Stock            int                           `db:"stock"`
	SKU              string                        `db:"sku"`
	Brand            string                        `db:"brand"`
	Tags             core.JSONB[[]string]          `db:"tags"`
	Specifications   core.JSONB[map[string]string] `db:"specifications"`
	Rating           float64                       `db:"rating"`
	ReviewCount      int                           `db:"review_count"`
	SoldCount        int                           `db:"sold_count"`
	Featured         bool                          `db:"is_featured"`
	Active           bool                          `db:"is_active"`
	CreatedAt        time.Time                     `db:"created_at"`
	UpdatedAt        time.Time                     `db:"updated_at"`
}

// OnSale reports whether the product is discounted from a higher list price.
func (p *Product) OnSale() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

// DiscountPercent is (original - price) / original * 100 rounded half to
// even, or 0 when the product is not on sale.
func (p *Product) DiscountPercent() int {
	if !p.OnSale() || p.OriginalPrice.Decimal.IsZero() {
		return 0
	}

	op := p.OriginalPrice.Decimal
	return int(op.Sub(p.Price).
		Div(op).
		Mul(decimal.NewFromInt(100)).
		RoundBank(0).
		IntPart())
}

func (p *Product) InStock(quantity int) bool {
	return quantity <= p.Stock
}
