package pricing_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestNewQuote_DerivesDiscountAndSavings(t *testing.T) {
	q := pricing.NewQuote(1000, ptr(1250))

	assert.True(t, q.Discounted())
	assert.Equal(t, int64(20), q.Percent)
	assert.Equal(t, "250.00", q.Savings.StringFixed(2))
	assert.Equal(t, int64(20), pricing.DiscountPercent(1000, 1250))
	assert.Equal(t, "250", pricing.Savings(1000, 1250).String())
}

func TestNewQuote_NoDiscount(t *testing.T) {
	tests := []struct {
		name     string
		original *float64
	}{
		{"no original price", nil},
		{"original equals price", ptr(50)},
		{"original below price", ptr(40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := pricing.NewQuote(50, tt.original)
			assert.False(t, q.Discounted())
			assert.Zero(t, q.Percent)
			assert.True(t, q.Savings.IsZero())
		})
	}
}

func TestNewQuote_RoundsPercent(t *testing.T) {
	// 1/3 off rounds to 33%.
	assert.Equal(t, int64(33), pricing.DiscountPercent(20, 30))
	assert.Equal(t, int64(67), pricing.DiscountPercent(10, 30))
}

func TestCartTotal(t *testing.T) {
	items := []models.CartItem{
		{Price: 500, Quantity: 1},
		{Price: 1500, Quantity: 1},
	}
	assert.Equal(t, "2000", pricing.CartTotal(items).String())

	items = append(items, models.CartItem{Price: 0.1, Quantity: 3}, models.CartItem{Price: 2.5, Quantity: 0})
	assert.Equal(t, "2002.80", pricing.CartTotal(items).StringFixed(2))
	assert.True(t, pricing.CartTotal(nil).IsZero())
}
