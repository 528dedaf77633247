// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
)

var tracer = otel.Tracer("souk-api/cart")

type Service struct {
	repo     Repository
	products ProductReader
	now      func() time.Time
}

func NewService(repo Repository, products ProductReader) *Service {
	return &Service{
		repo:     repo,
		products: products,
		now:      time.Now,
	}
}

func (s *Service) View(ctx context.Context, userID string) (*View, error) {
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, c)
}

// AddItem merges quantity into the line for productID, appending a new line
// when absent. The merged quantity may not exceed live stock.
func (s *Service) AddItem(
	ctx context.Context,
	userID, productID string,
	quantity int,
) (*View, error) {
	ctx, span := tracer.Start(ctx, "cart.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	)

	if quantity < 1 {
		return nil, core.ValidationError("quantity must be at least 1")
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	c, err := s.repo.Update(ctx, userID, func(c *Cart) error {
		if idx, ok := c.Find(productID); ok {
			merged := c.Items[idx].Quantity + quantity
			if merged > product.Stock {
				return stockError(product, merged)
			}
			c.Items[idx].Quantity = merged
			return nil
		}

		if quantity > product.Stock {
			return stockError(product, quantity)
		}

		c.Items = append(c.Items, Item{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return s.buildView(ctx, c)
}

// UpdateItem sets the quantity of an existing line. A quantity of zero or
// less removes the line, and removing an absent line is a no-op.
func (s *Service) UpdateItem(
	ctx context.Context,
	userID, productID string,
	quantity int,
) (*View, error) {
	ctx, span := tracer.Start(ctx, "cart.UpdateItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	)

	if quantity <= 0 {
		c, err := s.repo.Update(ctx, userID, func(c *Cart) error {
			c.Remove(productID)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return s.buildView(ctx, c)
	}

	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	c, err := s.repo.Update(ctx, userID, func(c *Cart) error {
		idx, ok := c.Find(productID)
		if !ok {
			return core.NotFoundError("cart item")
		}
		if quantity > product.Stock {
			return stockError(product, quantity)
		}
		c.Items[idx].Quantity = quantity
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return s.buildView(ctx, c)
}

func (s *Service) Clear(ctx context.Context, userID string) (*View, error) {
	c, err := s.repo.Update(ctx, userID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, c)
}

func (s *Service) activeProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("cart product %q: %w", productID, core.ErrProductNotFound)
		}
		return nil, err
	}

	if !product.Active {
		return nil, fmt.Errorf("cart product %q: %w", productID, core.ErrProductNotFound)
	}

	return product, nil
}

func (s *Service) buildView(ctx context.Context, c *Cart) (*View, error) {
	view := &View{
		ID:               c.ID,
		UserID:           c.UserID,
		Items:            make([]LineView, 0, len(c.Items)),
		Subtotal:         decimal.Zero,
		UnavailableItems: []string{},
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}

	for _, item := range c.Items {
		product, err := s.products.GetProductByID(ctx, item.ProductID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}

		if product == nil || !product.Active {
			view.UnavailableItems = append(view.UnavailableItems, item.ProductID)
			continue
		}

		total := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Subtotal = view.Subtotal.Add(total)
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, LineView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
			Product:   toProductSummary(product),
			Total:     total,
		})
	}

	return view, nil
}

func toProductSummary(p *catalog.Product) ProductSummary {
	summary := ProductSummary{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Price:     p.Price,
		Thumbnail: p.Thumbnail,
		Stock:     p.Stock,
	}
	if p.OriginalPrice.Valid {
		op := p.OriginalPrice.Decimal
		summary.OriginalPrice = &op
	}
	return summary
}

func stockError(p *catalog.Product, requested int) error {
	return &core.StockError{
		ProductID: p.ID,
		Name:      p.Name,
		Available: p.Stock,
		Requested: requested,
	}
}
