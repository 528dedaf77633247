// AngelaMos | 2026
// orders.go

package memory

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/souk-api/internal/cart"
	"github.com/carterperez-dev/souk-api/internal/catalog"
	"github.com/carterperez-dev/souk-api/internal/core"
	"github.com/carterperez-dev/souk-api/internal/order"
)

type orders struct {
	*Store
}

func (r *orders) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order: %w", core.NotFoundError("order"))
	}

	return cloneOrder(o), nil
}

func (r *orders) List(_ context.Context, userID string) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestOrders(userID, len(r.orderOrder)), nil
}

func (r *orders) Recent(_ context.Context, limit int) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestOrders("", limit), nil
}

func (r *orders) UpdateStatus(
	_ context.Context,
	id string,
	fn func(o *order.Order) error,
) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("update order status: %w", core.NotFoundError("order"))
	}

	o := cloneOrder(stored)
	if err := fn(o); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	stored.Status = o.Status
	stored.UpdatedAt = o.UpdatedAt

	return cloneOrder(stored), nil
}

// newestOrders walks insertion order backwards. Orders are only ever
// appended, so that is newest first. Requires the read lock.
func (s *Store) newestOrders(userID string, limit int) []order.Order {
	out := make([]order.Order, 0)

	for i := len(s.orderOrder) - 1; i >= 0 && len(out) < limit; i-- {
		o := s.orders[s.orderOrder[i]]
		if userID != "" && o.UserID != userID {
			continue
		}
		out = append(out, *cloneOrder(o))
	}

	return out
}

// WithinTx runs fn under the write lock. Every change fn makes through tx
// is journaled and undone when fn returns an error.
func (s *Store) WithinTx(_ context.Context, fn func(tx order.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:    s,
		products: make(map[string]catalog.Product),
		carts:    make(map[string]*cart.Cart),
	}

	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}

	return nil
}

type memTx struct {
	store    *Store
	products map[string]catalog.Product
	carts    map[string]*cart.Cart
	created  []string
}

func (t *memTx) LockCart(_ context.Context, userID string) (*cart.Cart, error) {
	c := t.store.ensureCart(userID)
	t.journalCart(userID, c)
	return c.Clone(), nil
}

func (t *memTx) LockProducts(
	_ context.Context,
	ids []string,
) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.store.products[id]; ok {
			out[id] = cloneProduct(p)
		}
	}
	return out, nil
}

func (t *memTx) DecrementStock(_ context.Context, productID string, quantity int) error {
	p, ok := t.store.products[productID]
	if !ok {
		return fmt.Errorf("decrement stock: %w", core.ErrProductNotFound)
	}
	if p.Stock < quantity {
		return fmt.Errorf("decrement stock %s: %w", productID, core.ErrInsufficientStock)
	}

	if _, seen := t.products[productID]; !seen {
		t.products[productID] = *cloneProduct(p)
	}

	p.Stock -= quantity
	p.SoldCount += quantity
	p.UpdatedAt = t.store.now().UTC()

	return nil
}

func (t *memTx) SaveCart(_ context.Context, c *cart.Cart) error {
	current, ok := t.store.carts[c.UserID]
	if !ok {
		return fmt.Errorf("save cart items: %w", core.ErrNotFound)
	}
	t.journalCart(c.UserID, current)

	c.UpdatedAt = t.store.now().UTC()
	t.store.carts[c.UserID] = c.Clone()

	return nil
}

func (t *memTx) CreateOrder(_ context.Context, o *order.Order) error {
	if _, ok := t.store.orders[o.ID]; ok {
		return fmt.Errorf("create order: %w", core.ErrDuplicateKey)
	}

	t.store.stamp(&o.CreatedAt)
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}

	t.store.orders[o.ID] = cloneOrder(o)
	t.store.orderOrder = append(t.store.orderOrder, o.ID)
	t.created = append(t.created, o.ID)

	return nil
}

func (t *memTx) journalCart(userID string, c *cart.Cart) {
	if _, seen := t.carts[userID]; !seen {
		t.carts[userID] = c.Clone()
	}
}

func (t *memTx) rollback() {
	for id, p := range t.products {
		t.store.products[id] = &p
	}
	for userID, c := range t.carts {
		t.store.carts[userID] = c
	}
	for _, id := range t.created {
		delete(t.store.orders, id)
	}
	if n := len(t.created); n > 0 {
		t.store.orderOrder = t.store.orderOrder[:len(t.store.orderOrder)-n]
	}
}
