// AngelaMos | 2026
// service.go

package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/order"
)

const (
	recentOrdersLimit = 5
	topProductsLimit  = 5
)

type Stats struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalOrders   int             `json:"total_orders"`
	TotalProducts int             `json:"total_products"`
	TotalUsers    int             `json:"total_users"`
}

type Dashboard struct {
	Stats        Stats                     `json:"stats"`
	RecentOrders []order.OrderResponse     `json:"recent_orders"`
	TopProducts  []catalog.ProductResponse `json:"top_products"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	topResp := make([]catalog.ProductResponse, 0, len(top))
	for i := range top {
		topResp = append(topResp, catalog.ToProductResponse(&top[i], nil))
	}

	return &Dashboard{
		Stats: Stats{
			TotalRevenue:  summary.TotalRevenue,
			TotalOrders:   summary.TotalOrders,
			TotalProducts: summary.TotalProducts,
			TotalUsers:    summary.TotalUsers,
		},
		RecentOrders: order.ToOrderResponseList(recent),
		TopProducts:  topResp,
	}, nil
}
