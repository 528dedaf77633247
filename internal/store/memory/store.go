// AngelaMos | 2026
// store.go

package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/souk-api/internal/analytics"
	"github.com/carterperez-dev/souk-api/internal/cart"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/order"
	"github.com/carterperez-dev/souk-api/internal/user"
)

// Store keeps every entity in process memory behind one lock. Reads hand
// out copies, so callers can never mutate stored state in place.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[string]*user.User
	usersByEmail map[string]string
	userOrder    []string

	categories     map[string]*catalog.Category
	categoryOrder  []string
	products       map[string]*catalog.Product
	productsBySlug map[string]string
	productOrder   []string

	carts map[string]*cart.Cart

	orders     map[string]*order.Order
	orderOrder []string
}

var (
	_ order.Transactor     = (*Store)(nil)
	_ user.Repository      = (*users)(nil)
	_ catalog.Repository   = (*products)(nil)
	_ cart.Repository      = (*carts)(nil)
	_ order.Repository     = (*orders)(nil)
	_ analytics.Repository = (*stats)(nil)
)

func New() *Store {
	return &Store{
		now:            time.Now,
		users:          make(map[string]*user.User),
		usersByEmail:   make(map[string]string),
		categories:     make(map[string]*catalog.Category),
		products:       make(map[string]*catalog.Product),
		productsBySlug: make(map[string]string),
		carts:          make(map[string]*cart.Cart),
		orders:         make(map[string]*order.Order),
	}
}

func (s *Store) Users() user.Repository {
	return &users{s}
}

func (s *Store) Catalog() catalog.Repository {
	return &products{s}
}

func (s *Store) Carts() cart.Repository {
	return &carts{s}
}

func (s *Store) Orders() order.Repository {
	return &orders{s}
}

func (s *Store) Analytics() analytics.Repository {
	return &stats{s}
}

// Ping always succeeds. It lets the store stand in for a database in
// health checks.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now().UTC()
	}
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	cp := *p
	cp.Images.V = slices.Clone(p.Images.V)
	cp.Tags.V = slices.Clone(p.Tags.V)
	if p.Specifications.V != nil {
		specs := make(map[string]string, len(p.Specifications.V))
		for k, v := range p.Specifications.V {
			specs[k] = v
		}
		cp.Specifications.V = specs
	}
	return &cp
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = slices.Clone(o.Items)
	return &cp
}

// productsInOrder returns copies of every product in insertion order.
func (s *Store) productsInOrder() []catalog.Product {
	out := make([]catalog.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, *cloneProduct(s.products[id]))
	}
	return out
}
