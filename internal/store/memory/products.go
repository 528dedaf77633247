// AngelaMos | 2026
// products.go

package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
)

type products struct {
	*Store
}

func (r *products) ListCategories(_ context.Context) ([]catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Category, 0, len(r.categoryOrder))
	for _, id := range r.categoryOrder {
		if c := r.categories[id]; c.Active {
			out = append(out, *c)
		}
	}

	slices.SortStableFunc(out, func(a, b catalog.Category) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	return out, nil
}

// GetCategory prefers a slug match over an id match.
func (r *products) GetCategory(
	_ context.Context,
	slugOrID string,
) (*catalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var byID *catalog.Category
	for _, id := range r.categoryOrder {
		c := r.categories[id]
		if !c.Active {
			continue
		}
		if c.Slug == slugOrID {
			cp := *c
			return &cp, nil
		}
		if c.ID == slugOrID {
			byID = c
		}
	}

	if byID == nil {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}

	cp := *byID
	return &cp, nil
}

func (r *products) CountActiveProducts(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range r.products {
		if p.Active {
			counts[p.CategoryID]++
		}
	}

	return counts, nil
}

func (r *products) CreateCategory(_ context.Context, c *catalog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[c.ID]; ok {
		return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
	}
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
	}

	r.stamp(&c.CreatedAt)

	cp := *c
	r.categories[c.ID] = &cp
	r.categoryOrder = append(r.categoryOrder, c.ID)

	return nil
}

func (r *products) ListProducts(
	_ context.Context,
	filter catalog.ProductFilter,
) ([]catalog.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, total := catalog.QueryProducts(r.productsInOrder(), filter)
	return page, total, nil
}

func (r *products) GetProductBySlug(
	_ context.Context,
	slug string,
) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.productsBySlug[slug]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrProductNotFound)
	}

	return cloneProduct(r.products[id]), nil
}

func (r *products) GetProductByID(
	_ context.Context,
	id string,
) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrProductNotFound)
	}

	return cloneProduct(p), nil
}

func (r *products) RelatedProducts(
	_ context.Context,
	categoryID, excludeID string,
	limit int,
) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return catalog.SelectRelated(r.productsInOrder(), categoryID, excludeID, limit), nil
}

func (r *products) FeaturedProducts(
	_ context.Context,
	limit int,
) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return catalog.SelectFeatured(r.productsInOrder(), limit), nil
}

func (r *products) DealProducts(
	_ context.Context,
	limit int,
) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return catalog.SelectDeals(r.productsInOrder(), limit), nil
}

func (r *products) CreateProduct(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; ok {
		return fmt.Errorf("create product: %w", core.ErrDuplicateKey)
	}
	if _, ok := r.productsBySlug[p.Slug]; ok {
		return fmt.Errorf("create product: %w", core.ErrDuplicateKey)
	}

	r.stamp(&p.CreatedAt)
	p.UpdatedAt = p.CreatedAt

	r.products[p.ID] = cloneProduct(p)
	r.productsBySlug[p.Slug] = p.ID
	r.productOrder = append(r.productOrder, p.ID)

	return nil
}

// UpdateProduct writes the editable fields only. Slug, category and
// counters are fixed after creation.
func (r *products) UpdateProduct(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[p.ID]
	if !ok {
		return fmt.Errorf("update product: %w", core.ErrProductNotFound)
	}

	stored.Name = p.Name
	stored.NameEn = p.NameEn
	stored.Description = p.Description
	stored.Price = p.Price
	stored.OriginalPrice = p.OriginalPrice
	stored.Stock = p.Stock
	stored.Thumbnail = p.Thumbnail
	stored.Featured = p.Featured
	stored.Active = p.Active
	stored.UpdatedAt = r.now().UTC()

	p.UpdatedAt = stored.UpdatedAt
	return nil
}
