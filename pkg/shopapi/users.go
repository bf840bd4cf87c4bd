package shopapi

import (
	"context"
	"net/url"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Users returns every account; admin only.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, fiber.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUser registers an account with the backend. The backend ignores
// duplicates by email.
func (c *Client) SaveUser(ctx context.Context, user *models.User) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPost, "/users", user, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// IsAdmin reports whether email carries the admin role.
func (c *Client) IsAdmin(ctx context.Context, email string) (bool, error) {
	var payload struct {
		Admin bool `json:"admin"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/users/admin/"+url.PathEscape(email), nil, &payload); err != nil {
		return false, err
	}
	return payload.Admin, nil
}

// ToggleRole flips a user between admin and ordinary.
func (c *Client) ToggleRole(ctx context.Context, id string) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPatch, "/users/role/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodDelete, "/users/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
