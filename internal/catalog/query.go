// AngelaMos | 2026
// query.go

package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SortCreatedAt = "created_at"
	SortPrice     = "price"
	SortRating    = "rating"
	SortSoldCount = "sold_count"
	SortName      = "name"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultPageLimit     = 12
	MaxPageLimit         = 100
	DefaultFeaturedLimit = 8
	DefaultDealsLimit    = 8
	RelatedLimit         = 4
)

// ProductFilter is a listing query. Category holds the caller's slug or id;
// repositories only read CategoryID, which the service resolves from it.
type ProductFilter struct {
	Category   string
	CategoryID string
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   bool
	Sort       string
	Order      string
	Page       int
	Limit      int
}

func (f *ProductFilter) Normalize() {
	f.Search = strings.TrimSpace(f.Search)

	switch f.Sort {
	case SortPrice, SortRating, SortSoldCount, SortName, SortCreatedAt:
	default:
		f.Sort = SortCreatedAt
	}

	if f.Order != OrderAsc {
		f.Order = OrderDesc
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Matches applies every filter except pagination. Inactive products never
// match.
func (f *ProductFilter) Matches(p *Product) bool {
	if !p.Active {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Search != "" && !matchesSearch(p, strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func matchesSearch(p *Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.NameEn), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}

	return slices.ContainsFunc(p.Tags.V, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), needle)
	})
}

// QueryProducts filters, stably sorts and pages products held in insertion
// order. It returns the page and the total match count.
func QueryProducts(products []Product, f ProductFilter) ([]Product, int) {
	f.Normalize()

	matched := make([]Product, 0, len(products))
	for i := range products {
		if f.Matches(&products[i]) {
			matched = append(matched, products[i])
		}
	}

	SortProducts(matched, f.Sort, f.Order)

	return Paginate(matched, f.Page, f.Limit), len(matched)
}

// SortProducts sorts in place. Ties keep their incoming order in both
// directions.
func SortProducts(products []Product, key, order string) {
	compare := comparator(key)
	if order == OrderDesc {
		slices.SortStableFunc(products, func(a, b Product) int {
			return compare(b, a)
		})
		return
	}
	slices.SortStableFunc(products, compare)
}

func comparator(key string) func(a, b Product) int {
	switch key {
	case SortPrice:
		return func(a, b Product) int { return a.Price.Cmp(b.Price) }
	case SortRating:
		return func(a, b Product) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortSoldCount:
		return func(a, b Product) int { return cmp.Compare(a.SoldCount, b.SoldCount) }
	case SortName:
		return func(a, b Product) int { return strings.Compare(a.Name, b.Name) }
	}
	return func(a, b Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
}

// Paginate returns the 1-indexed page of size limit, empty past the end.
func Paginate[T any](items []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return []T{}
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}

	end := min(start+limit, len(items))
	return items[start:end]
}

// SelectFeatured returns active featured products by sold_count descending.
func SelectFeatured(products []Product, limit int) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.Active && p.Featured {
			out = append(out, p)
		}
	}

	SortProducts(out, SortSoldCount, OrderDesc)
	return Paginate(out, 1, limit)
}

// SelectDeals returns active discounted products by discount percent
// descending, ties in incoming order.
func SelectDeals(products []Product, limit int) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.Active && p.OnSale() {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b Product) int {
		return cmp.Compare(b.DiscountPercent(), a.DiscountPercent())
	})
	return Paginate(out, 1, limit)
}

// SelectRelated returns up to limit active products sharing categoryID,
// excluding excludeID.
func SelectRelated(products []Product, categoryID, excludeID string, limit int) []Product {
	out := make([]Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.Active && p.CategoryID == categoryID && p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out
}

// SelectTop returns up to limit active products by sold_count descending.
func SelectTop(products []Product, limit int) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.Active {
			out = append(out, p)
		}
	}

	SortProducts(out, SortSoldCount, OrderDesc)
	return Paginate(out, 1, limit)
}
