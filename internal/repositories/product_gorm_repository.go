package repositories

import (
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductCache is a GORM implementation of ProductCache.
type GORMProductCache struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGORMProductCache creates a new instance of GORMProductCache.
func NewGORMProductCache(db *gorm.DB) *GORMProductCache {
	return &GORMProductCache{
		db:  db,
		now: time.Now,
	}
}

// All retrieves the cached catalog in the order the backend returned it.
func (r *GORMProductCache) All() ([]models.Product, time.Time, error) {
	var products []models.Product
	if err := r.db.Order("position asc").Find(&products).Error; err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read product cache: %w", err)
	}
	if len(products) == 0 {
		return nil, time.Time{}, nil
	}
	return products, products[0].CachedAt, nil
}

// Replace swaps the cached catalog for products in one transaction.
func (r *GORMProductCache) Replace(products []models.Product) error {
	fetchedAt := r.now()
	rows := make([]models.Product, 0, len(products))
	for i, p := range products {
		if p.ID == "" {
			continue
		}
		p.Position = i
		p.CachedAt = fetchedAt
		rows = append(rows, p)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace product cache: %w", err)
	}
	return nil
}

// Invalidate empties the cache so the next read goes to the backend.
func (r *GORMProductCache) Invalidate() error {
	if err := r.db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}
