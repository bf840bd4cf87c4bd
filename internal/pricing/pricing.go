// Package pricing computes discounts and cart totals with decimal arithmetic.
package pricing

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Quote is the displayed price breakdown of a product.
type Quote struct {
	Price    decimal.Decimal
	Original decimal.Decimal
	Percent  int64
	Savings  decimal.Decimal
}

// Discounted reports whether the quote shows a reduced price.
func (q Quote) Discounted() bool {
	return q.Savings.IsPositive()
}

// NewQuote derives the discount from price and the optional pre-discount price.
// Without an original price above price there is no discount.
func NewQuote(price float64, original *float64) Quote {
	q := Quote{Price: decimal.NewFromFloat(price)}
	if original == nil {
		return q
	}
	orig := decimal.NewFromFloat(*original)
	if !orig.GreaterThan(q.Price) {
		return q
	}
	q.Original = orig
	q.Savings = orig.Sub(q.Price)
	q.Percent = q.Savings.Div(orig).Mul(hundred).Round(0).IntPart()
	return q
}

// QuoteProduct quotes a product.
func QuoteProduct(p models.Product) Quote {
	return NewQuote(p.Price, p.OriginalPrice)
}

// DiscountPercent is the whole-number discount of price against original.
func DiscountPercent(price, original float64) int64 {
	return NewQuote(price, &original).Percent
}

// Savings is original minus price, or zero when there is no discount.
func Savings(price, original float64) decimal.Decimal {
	return NewQuote(price, &original).Savings
}

// CartTotal sums price × quantity over items. A quantity below 1 counts as 1.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return total.Round(2)
}
