// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShippingAddressRequest struct {
	FullName   string `json:"full_name"   validate:"required,max=200"`
	Phone      string `json:"phone"       validate:"required,max=32"`
	City       string `json:"city"        validate:"required,max=100"`
	District   string `json:"district"    validate:"omitempty,max=100"`
	Address    string `json:"address"     validate:"required,max=500"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer"`
	Notes           string                 `json:"notes"          validate:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderResponse struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          string          `json:"user_id"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          Status          `json:"status"`
	StatusLabel     string          `json:"status_label"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderEnvelope struct {
	Order OrderResponse `json:"order"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

func (r ShippingAddressRequest) toAddress() ShippingAddress {
	return ShippingAddress(r)
}

func ToOrderResponse(o *Order) OrderResponse {
	items := o.Items
	if items == nil {
		items = []Item{}
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		Total:           o.Total,
		Status:          o.Status,
		StatusLabel:     o.Status.Label(),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
