package repositories

import (
	"sync"
	"time"

	"storefront/internal/models"
)

// MockProductCache is an in-memory implementation of ProductCache.
type MockProductCache struct {
	products  []models.Product
	fetchedAt time.Time
	mu        sync.RWMutex
	now       func() time.Time
}

// NewMockProductCache creates a new instance of MockProductCache.
func NewMockProductCache() *MockProductCache {
	return &MockProductCache{now: time.Now}
}

// All returns the cached products.
func (r *MockProductCache) All() ([]models.Product, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.products) == 0 {
		return nil, time.Time{}, nil
	}
	return append([]models.Product(nil), r.products...), r.fetchedAt, nil
}

// Replace stores products as the cached catalog.
func (r *MockProductCache) Replace(products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = append([]models.Product(nil), products...)
	r.fetchedAt = r.now()
	return nil
}

// Invalidate empties the cache.
func (r *MockProductCache) Invalidate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = nil
	r.fetchedAt = time.Time{}
	return nil
}

// Age backdates the cached catalog by d, for expiry tests.
func (r *MockProductCache) Age(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchedAt = r.fetchedAt.Add(-d)
}
