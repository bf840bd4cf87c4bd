package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the signed-in user's cart.
type CartHandler struct {
	carts    *services.CartService
	products *services.ProductService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, products *services.ProductService) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. Adding runs behind optionalAuth so
// an anonymous add is answered with the product page to return to.
func (h *CartHandler) RegisterRoutes(router fiber.Router, requireAuth, optionalAuth fiber.Handler) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", requireAuth, h.HandleGetCart)
	cartRoutes.Post("/", optionalAuth, h.HandleAddToCart)
	cartRoutes.Patch("/:id", requireAuth, h.HandleSetQuantity)
	cartRoutes.Delete("/:id", requireAuth, h.HandleRemove)
}

func (h *CartHandler) view(items []models.CartItem) fiber.Map {
	count := 0
	for _, item := range items {
		if item.Quantity < 1 {
			count++
		} else {
			count += item.Quantity
		}
	}
	return fiber.Map{
		"items": items,
		"total": h.carts.Total(items).StringFixed(2),
		"count": count,
		"empty": len(items) == 0,
	}
}

// HandleGetCart returns the cart with its total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.carts.List(c.UserContext(), middleware.CurrentEmail(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve cart")
	}
	return c.JSON(h.view(items))
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// HandleAddToCart adds a product at its current price.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req addToCartRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	email := middleware.CurrentEmail(c)
	if email == "" {
		_, err := h.carts.Add(c.UserContext(), email, models.Product{ID: req.ProductID})
		return respondError(c, err, "Sign in required")
	}

	product, err := h.products.GetProductByID(c.UserContext(), req.ProductID)
	if err != nil {
		return respondError(c, err, "Could not add to cart")
	}

	items, err := h.carts.Add(c.UserContext(), email, *product)
	if err != nil {
		return respondError(c, err, "Could not add to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(h.view(items))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleSetQuantity changes the quantity of one row. Values below 1 become 1.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req quantityRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	items, err := h.carts.SetQuantity(c.UserContext(), middleware.CurrentEmail(c), c.Params("id"), req.Quantity)
	if err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(h.view(items))
}

// HandleRemove deletes one row.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	items, err := h.carts.Remove(c.UserContext(), middleware.CurrentEmail(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not remove item")
	}
	return c.JSON(h.view(items))
}
