// AngelaMos | 2026
// repository.go

package analytics

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/order"
)

type Summary struct {
	TotalRevenue  decimal.Decimal `db:"total_revenue"`
	TotalOrders   int             `db:"total_orders"`
	TotalProducts int             `db:"total_products"`
	TotalUsers    int             `db:"total_users"`
}

// Repository serves read-only rollups. Revenue excludes cancelled orders,
// products count only active ones, users count only customers.
type Repository interface {
	Summary(ctx context.Context) (Summary, error)
	RecentOrders(ctx context.Context, limit int) ([]order.Order, error)
	TopProducts(ctx context.Context, limit int) ([]catalog.Product, error)
}

type repository struct {
	db       *sqlx.DB
	orders   order.Repository
	products catalog.Repository
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{
		db:       db,
		orders:   order.NewRepository(db),
		products: catalog.NewRepository(db),
	}
}

func (r *repository) Summary(ctx context.Context) (Summary, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> 'cancelled') AS total_revenue,
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COUNT(*) FROM products WHERE is_active) AS total_products,
			(SELECT COUNT(*) FROM users WHERE role = 'customer') AS total_users`

	var s Summary
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return Summary{}, fmt.Errorf("dashboard summary: %w", err)
	}

	return s, nil
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]order.Order, error) {
	return r.orders.Recent(ctx, limit)
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	products, _, err := r.products.ListProducts(ctx, catalog.ProductFilter{
		Sort:  catalog.SortSoldCount,
		Order: catalog.OrderDesc,
		Page:  1,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return products, nil
}
