package catalog

import (
	"storefront/internal/models"
	"storefront/internal/pricing"
)

// Variant selects how a product card is presented on a page.
type Variant string

const (
	VariantGeneric    Variant = "generic"
	VariantBestSeller Variant = "best-seller"
	VariantFeatured   Variant = "featured"
)

// VariantFor picks the card variant used on a tag listing.
func VariantFor(tag models.Tag) Variant {
	switch tag {
	case models.TagBestSeller:
		return VariantBestSeller
	case models.TagFeatured:
		return VariantFeatured
	}
	return VariantGeneric
}

// Card is the presentation data of one product tile.
type Card struct {
	Variant       Variant  `json:"variant"`
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Image         string   `json:"image"`
	Price         string   `json:"price"`
	OriginalPrice string   `json:"originalPrice,omitempty"`
	Discount      int64    `json:"discount"`
	Savings       string   `json:"savings,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Sold          int      `json:"sold,omitempty"`
	Badge         string   `json:"badge,omitempty"`
	Countdown     string   `json:"countdown,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Wished        bool     `json:"wished"`
}

// NewCard builds the card for p. wished is the derived wishlist flag.
func NewCard(p models.Product, variant Variant, wished bool) Card {
	quote := pricing.QuoteProduct(p)
	card := Card{
		Variant: variant,
		ID:      p.ID,
		Title:   p.Title,
		Image:   p.Image,
		Price:   quote.Price.StringFixed(2),
		Rating:  p.Rating,
		Reviews: p.Reviews,
		Badge:   p.Badge,
		Wished:  wished,
	}
	if quote.Discounted() {
		card.OriginalPrice = quote.Original.StringFixed(2)
		card.Discount = quote.Percent
		card.Savings = quote.Savings.StringFixed(2)
	}
	switch variant {
	case VariantBestSeller:
		card.Sold = p.Sold
	case VariantFeatured:
		card.Countdown = p.Countdown
		card.Colors = p.Colors
	}
	return card
}

// Cards renders products with one variant; isWished may be nil.
func Cards(products []models.Product, variant Variant, isWished func(id string) bool) []Card {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		wished := isWished != nil && isWished(p.ID)
		cards = append(cards, NewCard(p, variant, wished))
	}
	return cards
}
