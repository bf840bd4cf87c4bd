package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"
	"storefront/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles the checkout page.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout routes behind requireAuth.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	checkoutRoutes := router.Group("/checkout", requireAuth)
	checkoutRoutes.Get("/", h.HandleView)
	checkoutRoutes.Post("/intent", h.HandlePrepare)
	checkoutRoutes.Post("/submit", h.HandleSubmit)
}

// HandleView returns the cart and the checkout state.
func (h *CheckoutHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.checkout.View(c.UserContext(), middleware.CurrentEmail(c))
	if err != nil {
		return respondError(c, err, "Could not load checkout")
	}
	return c.JSON(view)
}

// HandlePrepare requests a payment intent for the cart total.
func (h *CheckoutHandler) HandlePrepare(c *fiber.Ctx) error {
	view, err := h.checkout.Prepare(c.UserContext(), middleware.CurrentEmail(c))
	if err != nil {
		return respondError(c, err, "Could not start payment")
	}
	return c.JSON(view)
}

type submitRequest struct {
	Card payment.Card `json:"card" validate:"required"`
}

// HandleSubmit pays for the cart.
func (h *CheckoutHandler) HandleSubmit(c *fiber.Ctx) error {
	var req submitRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	result, err := h.checkout.Submit(c.UserContext(), middleware.CurrentEmail(c), req.Card)
	if err != nil {
		return respondError(c, err, "Payment failed")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Payment successful",
		"transactionId": result.Order.TransactionID,
		"order":         result.Order,
		"cart":          result.Cart,
	})
}
