package handlers

import (
	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for the wishlist.
type WishlistHandler struct {
	wishlist *services.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlist *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

// RegisterRoutes registers the wishlist routes behind requireAuth.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	wishlistRoutes := router.Group("/wishlist", requireAuth)
	wishlistRoutes.Get("/", h.HandleGetWishlist)
	wishlistRoutes.Post("/:productId/toggle", h.HandleToggle)
}

// HandleGetWishlist returns the wished products as cards.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	products, err := h.wishlist.Products(c.UserContext(), middleware.CurrentEmail(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve wishlist")
	}
	cards := catalog.Cards(products, catalog.VariantGeneric, func(string) bool { return true })
	return c.JSON(fiber.Map{
		"products": cards,
		"total":    len(cards),
		"empty":    len(cards) == 0,
	})
}

// HandleToggle flips one product in the wishlist.
func (h *WishlistHandler) HandleToggle(c *fiber.Ctx) error {
	productID := c.Params("productId")
	wished, err := h.wishlist.Toggle(c.UserContext(), middleware.CurrentEmail(c), productID)
	if err != nil {
		return respondError(c, err, "Could not update wishlist")
	}
	return c.JSON(fiber.Map{
		"productId": productID,
		"wished":    wished,
	})
}
