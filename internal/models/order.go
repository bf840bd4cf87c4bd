package models

import "time"

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"

	// Display-only aliases used by the dashboard status filter.
	StatusCompleted OrderStatus = "completed"
	StatusFailed    OrderStatus = "failed"
)

// Order is a payment record created after a confirmed checkout.
type Order struct {
	ID            string      `json:"_id,omitempty"`
	Email         string      `json:"email" validate:"required,email"`
	Price         float64     `json:"price" validate:"gt=0"`
	TransactionID string      `json:"transactionId" validate:"required"`
	Date          time.Time   `json:"date"`
	Status        OrderStatus `json:"status"`
	CartIDs       []string    `json:"cartIds"`
	ProductIDs    []string    `json:"menuItemIds"`
}
