// AngelaMos | 2026
// pricing_test.go

package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func items(lines ...string) []Item {
	out := make([]Item, 0, len(lines))
	for _, l := range lines {
		out = append(out, Item{Total: decimal.RequireFromString(l), Quantity: 1})
	}
	return out
}

func TestComputeTotals(t *testing.T) {
	p := DefaultPricing()

	tests := []struct {
		name     string
		items    []Item
		shipping string
		tax      string
		total    string
	}{
		{"free shipping above threshold", items("600"), "0", "90", "690"},
		{"free shipping at threshold", items("300", "200"), "0", "75", "575"},
		{"shipping fee below threshold", items("100"), "30", "15", "145"},
		{"tax rounds half away from zero", items("0.10"), "30", "0.02", "30.12"},
		{"empty", nil, "30", "0", "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Compute(tt.items)
			assert.True(t, decimal.RequireFromString(tt.shipping).Equal(got.ShippingCost), "shipping %s", got.ShippingCost)
			assert.True(t, decimal.RequireFromString(tt.tax).Equal(got.Tax), "tax %s", got.Tax)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestComputeTotalIsSumOfParts(t *testing.T) {
	p := DefaultPricing()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "lines")
		lines := make([]Item, 0, n)
		for range n {
			cents := rapid.Int64Range(1, 500_000).Draw(t, "cents")
			qty := rapid.IntRange(1, 10).Draw(t, "qty")
			lines = append(lines, Item{
				Quantity: qty,
				Total:    LineTotal(decimal.New(cents, -2), qty),
			})
		}

		got := p.Compute(lines)

		if !got.Total.Equal(got.Subtotal.Add(got.Tax).Add(got.ShippingCost)) {
			t.Fatalf("total %s != %s + %s + %s", got.Total, got.Subtotal, got.Tax, got.ShippingCost)
		}
		if got.Tax.Exponent() < -2 {
			t.Fatalf("tax %s has more than 2 decimals", got.Tax)
		}
		free := got.Subtotal.GreaterThanOrEqual(p.FreeShippingThreshold)
		if free != got.ShippingCost.IsZero() {
			t.Fatalf("shipping %s for subtotal %s", got.ShippingCost, got.Subtotal)
		}
	})
}
