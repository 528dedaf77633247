// AngelaMos | 2026
// carts.go

package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/carterperez-dev/souk-api/internal/cart"
)

type carts struct {
	*Store
}

func (r *carts) GetOrCreate(_ context.Context, userID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ensureCart(userID).Clone(), nil
}

// Update applies fn to a copy of the cart and stores the copy only when fn
// succeeds.
func (r *carts) Update(
	_ context.Context,
	userID string,
	fn func(c *cart.Cart) error,
) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.ensureCart(userID).Clone()
	if err := fn(c); err != nil {
		return nil, err
	}

	c.UpdatedAt = r.now().UTC()
	r.carts[userID] = c.Clone()

	return c, nil
}

// ensureCart must be called with the write lock held.
func (s *Store) ensureCart(userID string) *cart.Cart {
	if c, ok := s.carts[userID]; ok {
		return c
	}

	now := s.now().UTC()
	c := &cart.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []cart.Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.carts[userID] = c

	return c
}
