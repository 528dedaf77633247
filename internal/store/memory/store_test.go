// AngelaMos | 2026
// store_test.go

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/souk-api/internal/cart"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/order"
	"github.com/carterperez-dev/souk-api/internal/user"
)

func seedProduct(t *testing.T, s *Store, id string, stock int) *catalog.Product {
	t.Helper()

	p := &catalog.Product{
		ID:         id,
		Slug:       "slug-" + id,
		Name:       "Product " + id,
		CategoryID: "cat-1",
		Price:      decimal.NewFromInt(100),
		Stock:      stock,
		Tags:       core.NewJSONB([]string{"tag"}),
		Active:     true,
	}
	require.NoError(t, s.Catalog().CreateProduct(context.Background(), p))
	return p
}

func TestProductReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduct(t, s, "p1", 5)

	got, err := s.Catalog().GetProductByID(ctx, "p1")
	require.NoError(t, err)
	got.Stock = 0
	got.Tags.V[0] = "mutated"

	again, err := s.Catalog().GetProductBySlug(ctx, "slug-p1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Stock)
	assert.Equal(t, []string{"tag"}, again.Tags.V)
}

func TestProductNotFound(t *testing.T) {
	_, err := New().Catalog().GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrProductNotFound)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	s := New()
	seedProduct(t, s, "p1", 1)

	err := s.Catalog().CreateProduct(context.Background(), &catalog.Product{
		ID:   "p2",
		Slug: "slug-p1",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestGetCategoryPrefersSlug(t *testing.T) {
	ctx := context.Background()
	repo := New().Catalog()

	require.NoError(t, repo.CreateCategory(ctx, &catalog.Category{
		ID: "electronics", Slug: "phones", Active: true,
	}))
	require.NoError(t, repo.CreateCategory(ctx, &catalog.Category{
		ID: "c2", Slug: "electronics", Active: true,
	}))
	require.NoError(t, repo.CreateCategory(ctx, &catalog.Category{
		ID: "c3", Slug: "hidden", Active: false,
	}))

	got, err := repo.GetCategory(ctx, "electronics")
	require.NoError(t, err)
	assert.Equal(t, "c2", got.ID)

	_, err = repo.GetCategory(ctx, "hidden")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUserListNewestFirstWithSearch(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, email := range []string{"amal@souk.test", "badr@souk.test", "amira@souk.test"} {
		require.NoError(t, s.Users().Create(ctx, &user.User{
			ID:        email,
			Email:     email,
			Role:      user.RoleCustomer,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, total, err := s.Users().List(ctx, user.ListUsersParams{Search: "AM"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "amira@souk.test", list[0].Email)
	assert.Equal(t, "amal@souk.test", list[1].Email)

	err = s.Users().Create(ctx, &user.User{ID: "x", Email: "AMAL@souk.test"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestCartUpdateDiscardedOnError(t *testing.T) {
	ctx := context.Background()
	repo := New().Carts()
	boom := errors.New("boom")

	_, err := repo.Update(ctx, "u1", func(c *cart.Cart) error {
		c.Items = append(c.Items, cart.Item{ProductID: "p1", Quantity: 2})
		return boom
	})
	require.ErrorIs(t, err, boom)

	c, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestWithinTxRollsBackEveryChange(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduct(t, s, "p1", 3)

	_, err := s.Carts().Update(ctx, "u1", func(c *cart.Cart) error {
		c.Items = append(c.Items, cart.Item{ProductID: "p1", Quantity: 2})
		return nil
	})
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(tx order.Tx) error {
		c, err := tx.LockCart(ctx, "u1")
		if err != nil {
			return err
		}
		if err := tx.DecrementStock(ctx, "p1", 2); err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, &order.Order{ID: "o1", UserID: "u1"}); err != nil {
			return err
		}
		c.Clear()
		if err := tx.SaveCart(ctx, c); err != nil {
			return err
		}
		return tx.DecrementStock(ctx, "p1", 2)
	})
	require.ErrorIs(t, err, core.ErrInsufficientStock)

	p, err := s.Catalog().GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, 0, p.SoldCount)

	c, err := s.Carts().GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)

	orders, err := s.Orders().List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = s.Orders().GetByID(ctx, "o1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, o := range []order.Order{
		{ID: "o1", UserID: "u1"},
		{ID: "o2", UserID: "u2"},
		{ID: "o3", UserID: "u1"},
	} {
		require.NoError(t, s.WithinTx(ctx, func(tx order.Tx) error {
			return tx.CreateOrder(ctx, &o)
		}))
	}

	mine, err := s.Orders().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o3", mine[0].ID)
	assert.Equal(t, "o1", mine[1].ID)

	recent, err := s.Orders().Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "o3", recent[0].ID)
	assert.Equal(t, "o2", recent[1].ID)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduct(t, s, "p1", 1)
	inactive := seedProduct(t, s, "p2", 1)
	inactive.Active = false
	require.NoError(t, s.Catalog().UpdateProduct(ctx, inactive))

	require.NoError(t, s.Users().Create(ctx, &user.User{ID: "u1", Email: "a@x.test", Role: user.RoleCustomer}))
	require.NoError(t, s.Users().Create(ctx, &user.User{ID: "u2", Email: "b@x.test", Role: user.RoleAdmin}))

	require.NoError(t, s.WithinTx(ctx, func(tx order.Tx) error {
		if err := tx.CreateOrder(ctx, &order.Order{
			ID: "o1", Status: order.StatusPending, Total: decimal.RequireFromString("690"),
		}); err != nil {
			return err
		}
		return tx.CreateOrder(ctx, &order.Order{
			ID: "o2", Status: order.StatusCancelled, Total: decimal.RequireFromString("50"),
		})
	}))

	summary, err := s.Analytics().Summary(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("690").Equal(summary.TotalRevenue))
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, 1, summary.TotalProducts)
	assert.Equal(t, 1, summary.TotalUsers)
}
