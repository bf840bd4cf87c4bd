package models

import (
	"fmt"
	"time"
)

// Tag is a listing-page label from a fixed vocabulary, independent of category.
type Tag string

const (
	TagNew        Tag = "new"
	TagTrending   Tag = "trending"
	TagBestSeller Tag = "best-seller"
	TagFeatured   Tag = "featured"
	TagOffered    Tag = "offered"
)

// Tags lists the full tag vocabulary.
var Tags = []Tag{TagNew, TagTrending, TagBestSeller, TagFeatured, TagOffered}

// ParseTag returns the Tag named by s, or false if s is not in the vocabulary.
func ParseTag(s string) (Tag, bool) {
	for _, t := range Tags {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Product represents a product in the store. Rows in the local database are a
// read-through copy of the backend's catalog.
type Product struct {
	ID            string    `json:"_id" gorm:"primaryKey;type:varchar(64)"`
	Title         string    `json:"title" validate:"required,min=2,max=200"`
	Image         string    `json:"image" validate:"omitempty,url"`
	Images        []string  `json:"images,omitempty" gorm:"serializer:json"`
	Price         float64   `json:"price" validate:"gte=0"`
	OriginalPrice *float64  `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      float64   `json:"discount" validate:"gte=0,lte=100"`
	Rating        float64   `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int       `json:"reviews" validate:"gte=0"`
	Sold          int       `json:"sold" validate:"gte=0"`
	Category      string    `json:"category" gorm:"index"`
	Badge         string    `json:"badge,omitempty"`
	Description   string    `json:"description,omitempty"`
	Features      []string  `json:"features,omitempty" gorm:"serializer:json"`
	Colors        []string  `json:"colors,omitempty" gorm:"serializer:json"`
	Tags          []Tag     `json:"tags,omitempty" gorm:"serializer:json" validate:"dive,oneof=new trending best-seller featured offered"`
	Countdown     string    `json:"countdown,omitempty"`
	Position      int       `json:"-"` // source order within the cached collection
	CachedAt      time.Time `json:"-"`
}

// HasTag reports whether the product carries tag t.
func (p Product) HasTag(t Tag) bool {
	for _, pt := range p.Tags {
		if pt == t {
			return true
		}
	}
	return false
}

// Validate checks the cross-field price invariant that struct tags cannot express.
func (p Product) Validate() error {
	if p.Discount > 0 {
		if p.OriginalPrice == nil {
			return fmt.Errorf("product %s has a discount but no original price", p.ID)
		}
		if *p.OriginalPrice < p.Price {
			return fmt.Errorf("product %s original price %.2f is below price %.2f", p.ID, *p.OriginalPrice, p.Price)
		}
	}
	return nil
}
