// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/souk-api/internal/cart"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	// List returns orders newest first. An empty userID lists every order.
	List(ctx context.Context, userID string) ([]Order, error)
	Recent(ctx context.Context, limit int) ([]Order, error)
	// UpdateStatus is an atomic read-modify-write of one order.
	UpdateStatus(ctx context.Context, id string, fn func(o *Order) error) (*Order, error)
}

// Tx is the unit of work order placement runs in. Every change made through
// it commits together or not at all.
type Tx interface {
	LockCart(ctx context.Context, userID string) (*cart.Cart, error)
	LockProducts(ctx context.Context, ids []string) (map[string]*catalog.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
	SaveCart(ctx context.Context, c *cart.Cart) error
	CreateOrder(ctx context.Context, o *Order) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type orderRow struct {
	ID              string                      `db:"id"`
	OrderNumber     string                      `db:"order_number"`
	UserID          string                      `db:"user_id"`
	Items           core.JSONB[[]Item]          `db:"items"`
	ShippingAddress core.JSONB[ShippingAddress] `db:"shipping_address"`
	PaymentMethod   string                      `db:"payment_method"`
	Subtotal        decimal.Decimal             `db:"subtotal"`
	ShippingCost    decimal.Decimal             `db:"shipping_cost"`
	Tax             decimal.Decimal             `db:"tax"`
	Total           decimal.Decimal             `db:"total"`
	Status          string                      `db:"status"`
	Notes           string                      `db:"notes"`
	CreatedAt       time.Time                   `db:"created_at"`
	UpdatedAt       time.Time                   `db:"updated_at"`
}

func (r orderRow) toOrder() Order {
	return Order{
		ID:              r.ID,
		OrderNumber:     r.OrderNumber,
		UserID:          r.UserID,
		Items:           r.Items.V,
		ShippingAddress: r.ShippingAddress.V,
		PaymentMethod:   r.PaymentMethod,
		Subtotal:        r.Subtotal,
		ShippingCost:    r.ShippingCost,
		Tax:             r.Tax,
		Total:           r.Total,
		Status:          Status(r.Status),
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

const orderColumns = `id, order_number, user_id, items, shipping_address,
		       payment_method, subtotal, shipping_cost, tax, total, status,
		       notes, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := getOrder(ctx, r.db, id, false)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, userID string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toOrder())
	}

	return orders, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, seq DESC
		LIMIT $1`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	orders := make([]Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toOrder())
	}

	return orders, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	fn func(o *Order) error,
) (*Order, error) {
	var updated *Order

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		o, err := getOrder(ctx, tx, id, true)
		if err != nil {
			return err
		}

		if err := fn(o); err != nil {
			return err
		}

		query := `
			UPDATE orders
			SET status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`
		if err := tx.GetContext(ctx, &o.UpdatedAt, query, o.ID, string(o.Status)); err != nil {
			return fmt.Errorf("save status: %w", err)
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return updated, nil
}

func getOrder(ctx context.Context, db core.DBTX, id string, lock bool) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id::text = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var row orderRow
	err := db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NotFoundError("order")
	}
	if err != nil {
		return nil, err
	}

	o := row.toOrder()
	return &o, nil
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return core.InTx(ctx, t.db, func(tx *sqlx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

type pgTx struct {
	tx *sqlx.Tx
}

func (p *pgTx) LockCart(ctx context.Context, userID string) (*cart.Cart, error) {
	return cart.LockCart(ctx, p.tx, userID)
}

// LockProducts locks rows in id order so concurrent checkouts sharing
// products cannot deadlock. Missing ids are absent from the map.
func (p *pgTx) LockProducts(
	ctx context.Context,
	ids []string,
) (map[string]*catalog.Product, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	products := make(map[string]*catalog.Product, len(sorted))
	for _, id := range slices.Compact(sorted) {
		product, err := catalog.LockProduct(ctx, p.tx, id)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products[id] = product
	}

	return products, nil
}

func (p *pgTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	return catalog.DecrementStock(ctx, p.tx, productID, quantity)
}

func (p *pgTx) SaveCart(ctx context.Context, c *cart.Cart) error {
	return cart.SaveItems(ctx, p.tx, c)
}

func (p *pgTx) CreateOrder(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (id, order_number, user_id, items, shipping_address,
		                    payment_method, subtotal, shipping_cost, tax, total,
		                    status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	row := p.tx.QueryRowxContext(ctx, query,
		o.ID, o.OrderNumber, o.UserID,
		core.NewJSONB(o.Items), core.NewJSONB(o.ShippingAddress),
		o.PaymentMethod, o.Subtotal, o.ShippingCost, o.Tax, o.Total,
		string(o.Status), o.Notes,
	)
	if err := row.Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create order: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}
