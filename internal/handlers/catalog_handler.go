package handlers

import (
	"log"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the product listing, search and detail pages.
type CatalogHandler struct {
	products *services.ProductService
	wishlist *services.WishlistService
	reviews  *services.ReviewService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(products *services.ProductService, wishlist *services.WishlistService, reviews *services.ReviewService) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		wishlist: wishlist,
		reviews:  reviews,
	}
}

// RegisterRoutes registers the catalog routes. optionalAuth binds the user
// when one is signed in so cards carry the wishlist flag.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, optionalAuth fiber.Handler) {
	router.Get("/shop/:tag", optionalAuth, h.HandleShop)
	router.Get("/category/:category", optionalAuth, h.HandleCategory)
	router.Get("/products/search", optionalAuth, h.HandleSearch)
	router.Get("/products/:id", optionalAuth, h.HandleProduct)
}

// listingView is one page of product cards.
type listingView struct {
	Tag      models.Tag     `json:"tag,omitempty"`
	Category string         `json:"category,omitempty"`
	Query    string         `json:"query,omitempty"`
	Page     int            `json:"page"`
	Pages    int            `json:"pages"`
	Total    int            `json:"total"`
	Empty    bool           `json:"empty"`
	HasPrev  bool           `json:"hasPrev"`
	HasNext  bool           `json:"hasNext"`
	Products []catalog.Card `json:"products"`
}

// wishedFunc refreshes the user's wishlist and returns its membership test.
func (h *CatalogHandler) wishedFunc(c *fiber.Ctx) func(id string) bool {
	email := middleware.CurrentEmail(c)
	if email == "" {
		return func(string) bool { return false }
	}
	if _, err := h.wishlist.List(c.UserContext(), email); err != nil {
		log.Printf("[catalog] wishlist for %s unavailable: %v", email, err)
	}
	return func(id string) bool { return h.wishlist.IsWished(email, id) }
}

func (h *CatalogHandler) render(c *fiber.Ctx, page catalog.Page, variant catalog.Variant) listingView {
	return listingView{
		Page:     page.Page,
		Pages:    page.Pages,
		Total:    page.Total,
		Empty:    page.Empty,
		HasPrev:  page.HasPrev,
		HasNext:  page.HasNext,
		Products: catalog.Cards(page.Products, variant, h.wishedFunc(c)),
	}
}

// HandleShop renders one page of a tag listing.
func (h *CatalogHandler) HandleShop(c *fiber.Ctx) error {
	tag, ok := models.ParseTag(strings.ToLower(c.Params("tag")))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Unknown listing " + c.Params("tag"),
		})
	}

	page, err := h.products.TagPage(c.UserContext(), tag, pageParam(c), c.Query("step"))
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}

	view := h.render(c, page, catalog.VariantFor(tag))
	view.Tag = tag
	return c.JSON(view)
}

// HandleCategory renders one page of a category listing.
func (h *CatalogHandler) HandleCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	products, err := h.products.GetProductsByCategory(c.UserContext(), category)
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}

	view := h.render(c, catalog.PageOf(products, pageParam(c), catalog.PageSize), catalog.VariantGeneric)
	view.Category = category
	return c.JSON(view)
}

// HandleSearch renders the search results page.
func (h *CatalogHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	products, err := h.products.SearchProducts(c.UserContext(), query)
	if err != nil {
		return respondError(c, err, "Search failed")
	}

	view := h.render(c, catalog.PageOf(products, pageParam(c), catalog.PageSize), catalog.VariantGeneric)
	view.Query = query
	return c.JSON(view)
}

// HandleProduct renders the product detail page.
func (h *CatalogHandler) HandleProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.products.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}

	reviews, err := h.reviews.ForProduct(c.UserContext(), id)
	if err != nil {
		log.Printf("[catalog] reviews for %s unavailable: %v", id, err)
		reviews = []models.Review{}
	}

	quote := pricing.QuoteProduct(*product)
	return c.JSON(fiber.Map{
		"product":         product,
		"descriptionHtml": h.products.RenderDescription(product.Description),
		"price":           quote.Price.StringFixed(2),
		"originalPrice":   quote.Original.StringFixed(2),
		"discount":        quote.Percent,
		"savings":         quote.Savings.StringFixed(2),
		"discounted":      quote.Discounted(),
		"wished":          h.wishedFunc(c)(id),
		"reviews":         reviews,
		"rating":          services.Summarize(reviews),
	})
}
