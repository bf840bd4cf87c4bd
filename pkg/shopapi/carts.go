package shopapi

import (
	"context"
	"net/url"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Carts returns the cart rows owned by email.
func (c *Client) Carts(ctx context.Context, email string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.do(ctx, fiber.MethodGet, "/carts?email="+url.QueryEscape(email), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddCart creates a cart row.
func (c *Client) AddCart(ctx context.Context, item *models.CartItem) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPost, "/carts", item, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateCartQuantity sets the quantity of a cart row.
func (c *Client) UpdateCartQuantity(ctx context.Context, id string, quantity int) (*WriteResult, error) {
	var res WriteResult
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, fiber.MethodPatch, "/carts/"+url.PathEscape(id), body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteCart removes a cart row.
func (c *Client) DeleteCart(ctx context.Context, id string) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodDelete, "/carts/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
