// AngelaMos | 2026
// stats.go

package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/analytics"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/order"
	"github.com/carterperez-dev/souk-api/internal/user"
)

type stats struct {
	*Store
}

// Summary counts revenue over every order that was not cancelled, and
// customers only among users.
func (r *stats) Summary(_ context.Context) (analytics.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	revenue := decimal.Zero
	for _, o := range r.orders {
		if o.Status != order.StatusCancelled {
			revenue = revenue.Add(o.Total)
		}
	}

	active := 0
	for _, p := range r.products {
		if p.Active {
			active++
		}
	}

	customers := 0
	for _, u := range r.users {
		if u.Role == user.RoleCustomer {
			customers++
		}
	}

	return analytics.Summary{
		TotalRevenue:  revenue,
		TotalOrders:   len(r.orders),
		TotalProducts: active,
		TotalUsers:    customers,
	}, nil
}

func (r *stats) RecentOrders(_ context.Context, limit int) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestOrders("", limit), nil
}

func (r *stats) TopProducts(_ context.Context, limit int) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return catalog.SelectTop(r.productsInOrder(), limit), nil
}
