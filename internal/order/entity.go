// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPaymentMethod = "cash"

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	District   string `json:"district,omitempty"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Item is a snapshot of a product taken at checkout. Later catalog changes
// never reach it.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	Thumbnail string          `json:"thumbnail,omitempty"`
}

type Order struct {
	ID              string
	OrderNumber     string
	UserID          string
	Items           []Item
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Status          Status
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Order) OwnedBy(userID string) bool {
	return o.UserID == userID
}

// Actor is the authenticated caller of an order operation.
type Actor struct {
	UserID string
	Admin  bool
}

func (a Actor) CanView(o *Order) bool {
	return a.Admin || o.OwnedBy(a.UserID)
}
