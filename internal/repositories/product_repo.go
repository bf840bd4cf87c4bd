package repositories

import (
	"time"

	"storefront/internal/models"
)

// ProductCache stores the last catalog fetched from the backend.
type ProductCache interface {
	// All returns the cached products in source order and when they were
	// fetched. An empty cache returns no products and the zero time.
	All() ([]models.Product, time.Time, error)
	Replace(products []models.Product) error
	Invalidate() error
}
