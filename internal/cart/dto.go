// AngelaMos | 2026
// dto.go

package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"   validate:"omitempty,gte=1,max=1000"`
}

type UpdateItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"max=1000"`
}

type ProductSummary struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Thumbnail     string           `json:"thumbnail,omitempty"`
	Stock         int              `json:"stock"`
}

type LineView struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
	Product   ProductSummary  `json:"product"`
	Total     decimal.Decimal `json:"total"`
}

// View is a cart joined with live product data. Lines whose product is
// missing or inactive are left out of items and totals and reported in
// UnavailableItems.
type View struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Items            []LineView      `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ItemCount        int             `json:"item_count"`
	UnavailableItems []string        `json:"unavailable_items"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type CartResponse struct {
	Cart *View `json:"cart"`
}
