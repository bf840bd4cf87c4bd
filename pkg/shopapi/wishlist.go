package shopapi

import (
	"context"
	"net/url"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Wishlist returns the wishlist entries of email.
func (c *Client) Wishlist(ctx context.Context, email string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := c.do(ctx, fiber.MethodGet, "/wishlist/"+url.PathEscape(email), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddWishlist records a wishlist entry.
func (c *Client) AddWishlist(ctx context.Context, entry models.WishlistEntry) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPost, "/wishlist", entry, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RemoveWishlist deletes the (email, productId) entry.
func (c *Client) RemoveWishlist(ctx context.Context, entry models.WishlistEntry) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodDelete, "/wishlist", entry, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
