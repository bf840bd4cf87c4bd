package catalog

import "storefront/internal/models"

// Page is one rendered listing page.
type Page struct {
	Tag      models.Tag       `json:"tag,omitempty"`
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Total    int              `json:"total"`
	Empty    bool             `json:"empty"`
	HasPrev  bool             `json:"hasPrev"`
	HasNext  bool             `json:"hasNext"`
}

// Listing is the paging state of a tag listing. Replacing the underlying
// collection moves back to page 1.
type Listing struct {
	tag      models.Tag
	size     int
	page     int
	filtered []models.Product
}

// NewListing creates a listing for tag with the given page size.
func NewListing(tag models.Tag, size int) *Listing {
	if size <= 0 {
		size = PageSize
	}
	return &Listing{tag: tag, size: size, page: 1}
}

// SetProducts replaces the collection and resets to page 1.
func (l *Listing) SetProducts(products []models.Product) {
	l.filtered = FilterByTag(products, l.tag)
	l.page = 1
}

// Pages returns the number of pages of the filtered collection.
func (l *Listing) Pages() int {
	return PageCount(len(l.filtered), l.size)
}

// CurrentPage returns the 1-based page number.
func (l *Listing) CurrentPage() int {
	return l.page
}

// HasPrev reports whether a previous page exists.
func (l *Listing) HasPrev() bool {
	return l.page > 1
}

// HasNext reports whether a following page exists.
func (l *Listing) HasNext() bool {
	return l.page < l.Pages()
}

// Next advances one page; it is a no-op on the last page.
func (l *Listing) Next() {
	if l.HasNext() {
		l.page++
	}
}

// Prev moves back one page; it is a no-op on the first page.
func (l *Listing) Prev() {
	if l.HasPrev() {
		l.page--
	}
}

// GoTo jumps to page, clamped to the valid range.
func (l *Listing) GoTo(page int) {
	l.page = Clamp(page, l.Pages())
}

// Current renders the active page.
func (l *Listing) Current() Page {
	return Page{
		Tag:      l.tag,
		Products: Paginate(l.filtered, l.page, l.size),
		Page:     l.page,
		Pages:    l.Pages(),
		Total:    len(l.filtered),
		Empty:    len(l.filtered) == 0,
		HasPrev:  l.HasPrev(),
		HasNext:  l.HasNext(),
	}
}

// Clamp bounds page to 1..pages, returning 1 when there are no pages.
func Clamp(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageOf renders page of an already filtered collection without keeping state.
// It backs stateless listing requests where the page arrives as a parameter.
func PageOf(filtered []models.Product, page, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	pages := PageCount(len(filtered), size)
	page = Clamp(page, pages)
	return Page{
		Products: Paginate(filtered, page, size),
		Page:     page,
		Pages:    pages,
		Total:    len(filtered),
		Empty:    len(filtered) == 0,
		HasPrev:  page > 1,
		HasNext:  page < pages,
	}
}
