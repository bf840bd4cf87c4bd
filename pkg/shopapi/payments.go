package shopapi

import (
	"context"
	"net/url"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PaymentIntent is the processor intent the backend created for an amount.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

// Payments returns every order; admin only.
func (c *Client) Payments(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, fiber.MethodGet, "/payments", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Payment returns one order.
func (c *Client) Payment(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, fiber.MethodGet, "/payments/"+url.PathEscape(id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PaymentsByUser returns the orders placed by email.
func (c *Client) PaymentsByUser(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, fiber.MethodGet, "/payments/user/"+url.PathEscape(email), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreatePayment persists an order record for a confirmed payment.
func (c *Client) CreatePayment(ctx context.Context, order *models.Order) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodPost, "/payments", order, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdatePaymentStatus sets the fulfillment status of an order.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id string, status models.OrderStatus) (*WriteResult, error) {
	var res WriteResult
	body := map[string]models.OrderStatus{"status": status}
	if err := c.do(ctx, fiber.MethodPatch, "/payments/"+url.PathEscape(id), body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeletePayment removes an order record.
func (c *Client) DeletePayment(ctx context.Context, id string) (*WriteResult, error) {
	var res WriteResult
	if err := c.do(ctx, fiber.MethodDelete, "/payments/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreatePaymentIntent asks the backend for a processor intent of price.
func (c *Client) CreatePaymentIntent(ctx context.Context, price float64) (*PaymentIntent, error) {
	var intent PaymentIntent
	body := map[string]float64{"price": price}
	if err := c.do(ctx, fiber.MethodPost, "/payments/create-payment-intent", body, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
