package shopapi

import (
	"context"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Reviews returns every review.
func (c *Client) Reviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.do(ctx, fiber.MethodGet, "/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a review.
func (c *Client) CreateReview(ctx context.Context, review *models.Review) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPost, "/reviews", review, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
