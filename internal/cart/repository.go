// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
)

// Repository stores one cart per user. Update is an atomic
// read-modify-write: fn sees the current cart (created if absent) and its
// changes persist only when it returns nil.
type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Cart, error)
	Update(ctx context.Context, userID string, fn func(c *Cart) error) (*Cart, error)
}

type ProductReader interface {
	GetProductByID(ctx context.Context, id string) (*catalog.Product, error)
}

type cartRow struct {
	ID        string             `db:"id"`
	UserID    string             `db:"user_id"`
	Items     core.JSONB[[]Item] `db:"items"`
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

func (r cartRow) toCart() *Cart {
	items := r.Items.V
	if items == nil {
		items = []Item{}
	}
	return &Cart{
		ID:        r.ID,
		UserID:    r.UserID,
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, userID string) (*Cart, error) {
	row, err := ensureCart(ctx, r.db, userID, false)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return row.toCart(), nil
}

func (r *repository) Update(
	ctx context.Context,
	userID string,
	fn func(c *Cart) error,
) (*Cart, error) {
	var updated *Cart

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		row, err := ensureCart(ctx, tx, userID, true)
		if err != nil {
			return err
		}

		c := row.toCart()
		if err := fn(c); err != nil {
			return err
		}

		if err := SaveItems(ctx, tx, c); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	return updated, nil
}

// SaveItems writes the item list of an existing cart row. It is shared with
// the order transaction, which empties the cart inside its own tx.
func SaveItems(ctx context.Context, db core.DBTX, c *Cart) error {
	query := `
		UPDATE carts
		SET items = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := db.GetContext(ctx, &c.UpdatedAt, query, c.ID, core.NewJSONB(c.Items)); err != nil {
		return fmt.Errorf("save cart items: %w", err)
	}
	return nil
}

// LockCart loads the user's cart row FOR UPDATE, creating it when absent.
func LockCart(ctx context.Context, db core.DBTX, userID string) (*Cart, error) {
	row, err := ensureCart(ctx, db, userID, true)
	if err != nil {
		return nil, err
	}
	return row.toCart(), nil
}

func ensureCart(
	ctx context.Context,
	db core.DBTX,
	userID string,
	lock bool,
) (*cartRow, error) {
	insert := `
		INSERT INTO carts (id, user_id, items)
		VALUES ($1, $2, '[]'::jsonb)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := db.ExecContext(ctx, insert, uuid.New().String(), userID); err != nil {
		return nil, fmt.Errorf("ensure cart: %w", err)
	}

	query := `SELECT id, user_id, items, created_at, updated_at FROM carts WHERE user_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var row cartRow
	if err := db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	return &row, nil
}
