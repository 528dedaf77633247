// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/souk-api/internal/core"
)

var tracer = otel.Tracer("souk-api/order")

type PlaceOrderInput struct {
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Notes           string
}

type Service struct {
	repo    Repository
	tx      Transactor
	pricing Pricing
	prefix  string
	now     func() time.Time
}

func NewService(repo Repository, tx Transactor, pricing Pricing, prefix string) *Service {
	if prefix == "" {
		prefix = "ES"
	}
	return &Service{
		repo:    repo,
		tx:      tx,
		pricing: pricing,
		prefix:  prefix,
		now:     time.Now,
	}
}

// PlaceOrder converts the user's cart into a pending order. Validation and
// mutation run in one transaction: on any failure no stock moves, no order
// exists and the cart keeps its items.
func (s *Service) PlaceOrder(
	ctx context.Context,
	userID string,
	in PlaceOrderInput,
) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.PlaceOrder")
	defer span.End()

	if err := validateShipping(in.ShippingAddress); err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	var placed *Order

	err := s.tx.WithinTx(ctx, func(tx Tx) error {
		c, err := tx.LockCart(ctx, userID)
		if err != nil {
			return err
		}

		if c.IsEmpty() {
			return fmt.Errorf("place order: %w", core.ErrEmptyCart)
		}

		ids := make([]string, 0, len(c.Items))
		for _, it := range c.Items {
			ids = append(ids, it.ProductID)
		}

		products, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		for _, it := range c.Items {
			p, ok := products[it.ProductID]
			if !ok || !p.Active {
				return core.NewAppError(
					core.ErrProductUnavailable,
					"a product in your cart is no longer available",
					http.StatusConflict,
					"PRODUCT_UNAVAILABLE",
				)
			}
			if p.Stock < it.Quantity {
				return &core.StockError{
					ProductID: p.ID,
					Name:      p.Name,
					Available: p.Stock,
					Requested: it.Quantity,
				}
			}
		}

		items := make([]Item, 0, len(c.Items))
		for _, it := range c.Items {
			p := products[it.ProductID]

			if err := tx.DecrementStock(ctx, p.ID, it.Quantity); err != nil {
				return err
			}

			items = append(items, Item{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
				Total:     LineTotal(p.Price, it.Quantity),
				Thumbnail: p.Thumbnail,
			})
		}

		totals := s.pricing.Compute(items)
		now := s.now().UTC()
		id := uuid.New().String()

		o := &Order{
			ID:              id,
			OrderNumber:     s.orderNumber(id, now),
			UserID:          userID,
			Items:           items,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   paymentMethod,
			Subtotal:        totals.Subtotal,
			ShippingCost:    totals.ShippingCost,
			Tax:             totals.Tax,
			Total:           totals.Total,
			Status:          StatusPending,
			Notes:           strings.TrimSpace(in.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		c.Clear()
		if err := tx.SaveCart(ctx, c); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", placed.ID),
		attribute.Int("order.items", len(placed.Items)),
	)
	slog.InfoContext(ctx, "order placed",
		"order_id", placed.ID,
		"order_number", placed.OrderNumber,
		"user_id", userID,
		"total", placed.Total.StringFixed(2),
	)

	return placed, nil
}

func (s *Service) List(ctx context.Context, actor Actor) ([]Order, error) {
	userID := actor.UserID
	if actor.Admin {
		userID = ""
	}
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(o) {
		return nil, core.ForbiddenError("you do not have access to this order")
	}

	return o, nil
}

// UpdateStatus moves an order along its lifecycle. Only admins may call it.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actor Actor,
	id, status string,
) (*Order, error) {
	if !actor.Admin {
		return nil, core.ForbiddenError("admin privileges required")
	}

	next, ok := ParseStatus(status)
	if !ok {
		return nil, core.NewAppError(
			core.ErrInvalidStatus,
			fmt.Sprintf("unknown order status %q", status),
			http.StatusBadRequest,
			"INVALID_STATUS",
		)
	}

	var previous Status
	o, err := s.repo.UpdateStatus(ctx, id, func(o *Order) error {
		if !CanTransition(o.Status, next) {
			return core.NewAppError(
				core.ErrInvalidStatus,
				fmt.Sprintf("cannot move order from %s to %s", o.Status, next),
				http.StatusBadRequest,
				"INVALID_STATUS",
			)
		}
		previous = o.Status
		o.Status = next
		o.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order status changed",
		"order_id", o.ID,
		"from", string(previous),
		"to", string(next),
		"by", actor.UserID,
	)

	return o, nil
}

func (s *Service) orderNumber(id string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", s.prefix, at.Format("20060102"), strings.ToUpper(id[:8]))
}

func validateShipping(a ShippingAddress) error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", a.FullName},
		{"phone", a.Phone},
		{"city", a.City},
		{"address", a.Address},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return core.ValidationError(fmt.Sprintf("shipping_address.%s is required", r.field))
		}
	}

	return nil
}
