// Package catalog derives listing pages from a fetched product collection.
//
// Filtering keeps the backend's order; nothing here sorts. Pages are 1-based
// and callers clamp page numbers before slicing.
package catalog

import (
	"strings"

	"storefront/internal/models"
)

// PageSize is the number of products on every listing page.
const PageSize = 8

// FilterByTag returns the products carrying tag, in source order.
func FilterByTag(products []models.Product, tag models.Tag) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory returns the products whose category label equals category,
// ignoring case.
func FilterByCategory(products []models.Product, category string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// PageCount is ceil(total/size); zero items make zero pages.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate returns items[(page-1)*size : page*size], truncated at the end of
// items. A page outside 1..PageCount yields an empty slice.
func Paginate(items []models.Product, page, size int) []models.Product {
	if page < 1 || size <= 0 {
		return []models.Product{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []models.Product{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
