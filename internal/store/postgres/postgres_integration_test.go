//go:build integration

// AngelaMos | 2026
// postgres_integration_test.go

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/carterperez-dev/souk-api/internal/analytics"
	"github.com/carterperez-dev/souk-api/internal/auth"
	"github.com/carterperez-dev/souk-api/internal/cart"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/config"
	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/order"
	"github.com/carterperez-dev/souk-api/internal/user"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "souk",
				"POSTGRES_PASSWORD": "souk",
				"POSTGRES_DB":       "souk",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx) //nolint:errcheck // test cleanup
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          fmt.Sprintf("postgres://souk:souk@%s:%s/souk?sslmode=disable", host, port.Port()),
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() }) //nolint:errcheck // test cleanup

	require.NoError(t, Migrate(ctx, db.DB))
	require.NoError(t, Migrate(ctx, db.DB), "second run is a no-op")

	return db.DB
}

type fixture struct {
	db       *sqlx.DB
	users    *user.Service
	catalog  *catalog.Service
	carts    *cart.Service
	orders   *order.Service
	products catalog.Repository
}

func newFixture(t *testing.T) *fixture {
	db := startPostgres(t)
	products := catalog.NewRepository(db)

	return &fixture{
		db:       db,
		users:    user.NewService(user.NewRepository(db)),
		catalog:  catalog.NewService(products, "SAR"),
		carts:    cart.NewService(cart.NewRepository(db), products),
		orders:   order.NewService(order.NewRepository(db), order.NewTransactor(db), order.DefaultPricing(), "ES"),
		products: products,
	}
}

func (f *fixture) seedProduct(t *testing.T, slug, price string, stock int) *catalog.ProductResponse {
	t.Helper()
	ctx := context.Background()

	if _, err := f.catalog.GetCategory(ctx, "electronics"); err != nil {
		_, err := f.catalog.CreateCategory(ctx, catalog.CreateCategoryRequest{
			Slug: "electronics",
			Name: "Electronics",
		})
		require.NoError(t, err)
	}

	p, err := f.catalog.CreateProduct(ctx, catalog.CreateProductRequest{
		Slug:       slug,
		Name:       slug,
		CategoryID: "electronics",
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		Tags:       []string{"audio"},
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) seedUser(t *testing.T, email string) string {
	t.Helper()

	info, err := f.users.Create(context.Background(), newUser(email))
	require.NoError(t, err)
	return info.ID
}

func newUser(email string) auth.NewUser {
	return auth.NewUser{
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		FirstName:    "Test",
		LastName:     "Buyer",
	}
}

var shipping = order.PlaceOrderInput{
	ShippingAddress: order.ShippingAddress{
		FullName: "Amal Saeed",
		Phone:    "0500000000",
		City:     "Riyadh",
		Address:  "King Fahd Rd",
	},
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.seedProduct(t, "headphones", "300.00", 5)
	userID := f.seedUser(t, "amal@souk.test")

	_, err := f.carts.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)

	placed, err := f.orders.PlaceOrder(ctx, userID, shipping)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("690").Equal(placed.Total))
	assert.Equal(t, order.StatusPending, placed.Status)

	stored, err := f.products.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)
	assert.Equal(t, 2, stored.SoldCount)

	view, err := f.carts.View(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	got, err := f.orders.Get(ctx, order.Actor{UserID: userID}, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, got.OrderNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "headphones", got.Items[0].Name)

	summary, err := analytics.NewRepository(f.db).Summary(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("690").Equal(summary.TotalRevenue))
	assert.Equal(t, 1, summary.TotalOrders)
	assert.Equal(t, 1, summary.TotalUsers)
}

func TestConcurrentCheckoutOfLastUnit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.seedProduct(t, "last-one", "50.00", 1)
	buyers := []string{f.seedUser(t, "a@souk.test"), f.seedUser(t, "b@souk.test")}
	for _, id := range buyers {
		_, err := f.carts.AddItem(ctx, id, p.ID, 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(buyers))
	for i, id := range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.orders.PlaceOrder(ctx, id, shipping)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, core.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := f.products.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
}

func TestProductListingSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := range 12 {
		f.seedProduct(t, fmt.Sprintf("item-%02d", i), fmt.Sprintf("%d.00", 10+i), 1)
	}

	page, err := f.catalog.ListProducts(ctx, catalog.ProductFilter{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Products, 5)
	assert.Equal(t, 12, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)

	page, err = f.catalog.ListProducts(ctx, catalog.ProductFilter{
		Search: "AUDIO",
		Sort:   catalog.SortPrice,
		Order:  catalog.OrderAsc,
		Limit:  3,
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 3)
	assert.Equal(t, "item-00", page.Products[0].Slug)
}
