// AngelaMos | 2026
// entity.go

package cart

import (
	"slices"
	"time"
)

type Item struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is the single active cart of a user. It is emptied, never deleted.
type Cart struct {
	ID        string
	UserID    string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Find(productID string) (int, bool) {
	idx := slices.IndexFunc(c.Items, func(it Item) bool {
		return it.ProductID == productID
	})
	return idx, idx >= 0
}

func (c *Cart) Remove(productID string) {
	c.Items = slices.DeleteFunc(c.Items, func(it Item) bool {
		return it.ProductID == productID
	})
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = slices.Clone(c.Items)
	if cp.Items == nil {
		cp.Items = []Item{}
	}
	return &cp
}
