package catalog_test

import (
	"fmt"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeProducts builds n products; every third is trending and every product
// with an even index is new.
func makeProducts(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		p := models.Product{ID: fmt.Sprintf("p%02d", i), Title: fmt.Sprintf("Product %d", i), Price: float64(10 + i)}
		if i%3 == 0 {
			p.Tags = append(p.Tags, models.TagTrending)
		}
		if i%2 == 0 {
			p.Tags = append(p.Tags, models.TagNew)
		}
		products = append(products, p)
	}
	return products
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterByTag_PreservesSourceOrder(t *testing.T) {
	products := makeProducts(10)

	filtered := catalog.FilterByTag(products, models.TagTrending)
	assert.Equal(t, []string{"p00", "p03", "p06", "p09"}, ids(filtered))

	assert.Empty(t, catalog.FilterByTag(products, models.TagOffered))
	assert.Empty(t, catalog.FilterByTag(nil, models.TagNew))
}

func TestFilterByCategory(t *testing.T) {
	products := []models.Product{
		{ID: "a", Category: "Lighting"},
		{ID: "b", Category: "Furniture"},
		{ID: "c", Category: "lighting"},
	}
	assert.Equal(t, []string{"a", "c"}, ids(catalog.FilterByCategory(products, "LIGHTING")))
}

func TestPaginate_ConcatenationEqualsFiltered(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 16, 17, 40, 41} {
		for _, size := range []int{1, 3, catalog.PageSize} {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				filtered := catalog.FilterByTag(makeProducts(n), models.TagNew)

				pages := catalog.PageCount(len(filtered), size)
				assert.Equal(t, (len(filtered)+size-1)/size, pages)

				var joined []models.Product
				for page := 1; page <= pages; page++ {
					chunk := catalog.Paginate(filtered, page, size)
					require.NotEmpty(t, chunk)
					require.LessOrEqual(t, len(chunk), size)
					joined = append(joined, chunk...)
				}
				assert.Equal(t, ids(filtered), ids(joined))
			})
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	products := makeProducts(5)
	assert.Empty(t, catalog.Paginate(products, 0, 8))
	assert.Empty(t, catalog.Paginate(products, 2, 8))
	assert.Empty(t, catalog.Paginate(products, 1, 0))
	assert.Zero(t, catalog.PageCount(0, 8))
}

func TestListing_StepsStopAtLastPage(t *testing.T) {
	listing := catalog.NewListing(models.TagNew, 2)
	listing.SetProducts(makeProducts(12)) // 6 new products, 3 pages

	listing.Next()
	listing.Next()
	listing.Next()
	assert.Equal(t, 3, listing.CurrentPage())
	assert.False(t, listing.HasNext())
	assert.Equal(t, []string{"p08", "p10"}, ids(listing.Current().Products))
}

func TestListing_CollectionChangeResetsPage(t *testing.T) {
	listing := catalog.NewListing(models.TagNew, 2)
	listing.SetProducts(makeProducts(12))
	listing.GoTo(3)
	assert.Equal(t, 3, listing.CurrentPage())

	listing.SetProducts(makeProducts(2))
	assert.Equal(t, 1, listing.CurrentPage())
	assert.Equal(t, 1, listing.Pages())
}

func TestListing_BoundariesAreDisabled(t *testing.T) {
	listing := catalog.NewListing(models.TagNew, 2)
	listing.SetProducts(makeProducts(6)) // 3 new products, 2 pages

	assert.False(t, listing.HasPrev())
	listing.Prev()
	assert.Equal(t, 1, listing.CurrentPage())

	listing.Next()
	listing.Next()
	assert.Equal(t, 2, listing.CurrentPage())
	assert.True(t, listing.HasPrev())

	listing.GoTo(99)
	assert.Equal(t, 2, listing.CurrentPage())
	listing.GoTo(-4)
	assert.Equal(t, 1, listing.CurrentPage())
}

func TestListing_EmptyCollection(t *testing.T) {
	listing := catalog.NewListing(models.TagOffered, catalog.PageSize)
	listing.SetProducts(makeProducts(10))

	page := listing.Current()
	assert.True(t, page.Empty)
	assert.Zero(t, page.Pages)
	assert.Empty(t, page.Products)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestPageOf_ClampsRequestedPage(t *testing.T) {
	filtered := makeProducts(10)

	page := catalog.PageOf(filtered, 7, catalog.PageSize)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, []string{"p08", "p09"}, ids(page.Products))
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestNewCard_Variants(t *testing.T) {
	orig := 1250.0
	p := models.Product{
		ID: "x", Title: "Speaker", Price: 1000, OriginalPrice: &orig,
		Sold: 42, Countdown: "2d", Colors: []string{"black"},
	}

	generic := catalog.NewCard(p, catalog.VariantGeneric, true)
	assert.Equal(t, "1000.00", generic.Price)
	assert.Equal(t, "1250.00", generic.OriginalPrice)
	assert.Equal(t, int64(20), generic.Discount)
	assert.Equal(t, "250.00", generic.Savings)
	assert.True(t, generic.Wished)
	assert.Zero(t, generic.Sold)

	best := catalog.NewCard(p, catalog.VariantFor(models.TagBestSeller), false)
	assert.Equal(t, catalog.VariantBestSeller, best.Variant)
	assert.Equal(t, 42, best.Sold)

	featured := catalog.NewCard(p, catalog.VariantFor(models.TagFeatured), false)
	assert.Equal(t, "2d", featured.Countdown)
	assert.Equal(t, []string{"black"}, featured.Colors)

	cards := catalog.Cards([]models.Product{p, {ID: "y", Price: 5}}, catalog.VariantGeneric, func(id string) bool { return id == "y" })
	require.Len(t, cards, 2)
	assert.False(t, cards[0].Wished)
	assert.True(t, cards[1].Wished)
	assert.Empty(t, cards[1].OriginalPrice)
}
