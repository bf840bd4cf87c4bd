package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles product reviews.
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes registers the review routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/reviews/:productId", h.HandleList)
	router.Post("/reviews", requireAuth, h.HandleCreate)
}

// HandleList returns the reviews of a product with their summary.
func (h *ReviewHandler) HandleList(c *fiber.Ctx) error {
	list, err := h.reviews.ForProduct(c.UserContext(), c.Params("productId"))
	if err != nil {
		return respondError(c, err, "Could not retrieve reviews")
	}
	return c.JSON(fiber.Map{
		"reviews": list,
		"rating":  services.Summarize(list),
		"empty":   len(list) == 0,
	})
}

// HandleCreate stores a review by the caller.
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	review, err := h.reviews.Create(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, err, "Could not save review")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
