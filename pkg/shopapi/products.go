package shopapi

import (
	"context"
	"net/url"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Products returns the full catalog in backend order.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, fiber.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product returns a single product.
func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, fiber.MethodGet, "/products/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProducts runs the backend's free-text product search.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	path := "/products/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, fiber.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByIDs resolves many product identifiers in one call.
func (c *Client) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	body := map[string][]string{"ids": ids}
	if err := c.do(ctx, fiber.MethodPost, "/products/bulk", body, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByCategory returns the products carrying a category label.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, fiber.MethodGet, "/products/category/"+url.PathEscape(category), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, product *models.Product) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPost, "/products", product, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateProduct replaces the editable fields of a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, product *models.Product) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPatch, "/products/"+url.PathEscape(id), product, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id string) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodDelete, "/products/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
