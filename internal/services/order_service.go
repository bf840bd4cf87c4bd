package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/search"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/shopapi"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes order events. *rabbitmq.Client implements it.
type EventPublisher interface {
	PublishOrderCreated(event rabbitmq.OrderEvent) error
}

// RetryPolicy bounds the payment history retries.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetryPolicy is three attempts, 1s doubling, capped at 30s.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Base: time.Second, Max: 30 * time.Second}

// Delay returns the wait before retry number n (starting at 1).
func (p RetryPolicy) Delay(n int) time.Duration {
	d := p.Base
	for i := 1; i < n; i++ {
		d *= 2
		if d >= p.Max {
			return p.Max
		}
	}
	if d > p.Max {
		return p.Max
	}
	return d
}

// OrderService handles business logic related to orders.
type OrderService struct {
	api       *shopapi.Client
	publisher EventPublisher
	retry     RetryPolicy
	validate  *validator.Validate
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(api *shopapi.Client, publisher EventPublisher, retry RetryPolicy) *OrderService {
	if retry.Attempts < 1 {
		retry = DefaultRetryPolicy
	}
	return &OrderService{
		api:       api,
		publisher: publisher,
		retry:     retry,
		validate:  validator.New(),
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	list, err := s.api.Payments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return list, nil
}

// SearchOrders applies the dashboard query and status filter.
func (s *OrderService) SearchOrders(ctx context.Context, query, status string) ([]models.Order, error) {
	list, err := s.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}
	return orders.FilterByDisplayStatus(search.Orders(list, query), status), nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.api.Payment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return order, nil
}

// UpdateOrderStatus moves the order to status if the transition table allows it.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	next, err := orders.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := orders.Transition(order.Status, next); err != nil {
		return nil, err
	}

	if _, err := s.api.UpdatePaymentStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	log.Printf("[orders] %s: %s -> %s", id, order.Status, next)
	order.Status = next
	return order, nil
}

// DeleteOrder removes an order that has not entered fulfillment.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if !orders.CanDelete(order.Status) {
		return fmt.Errorf("%w: order %s is %s", orders.ErrDeleteNotAllowed, id, order.Status)
	}
	if _, err := s.api.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}

// History returns the payments of email, retrying transient failures with
// exponential backoff. Rejected sessions and canceled contexts are not retried.
func (s *OrderService) History(ctx context.Context, email string) ([]models.Order, error) {
	if email == "" {
		return nil, ErrSignInRequired
	}
	ctx = WithEmail(ctx, email)

	var lastErr error
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		list, err := s.api.PaymentsByUser(ctx, email)
		if err == nil {
			return list, nil
		}
		lastErr = err
		if errors.Is(err, shopapi.ErrUnauthorized) || ctx.Err() != nil || attempt == s.retry.Attempts {
			break
		}

		delay := s.retry.Delay(attempt)
		log.Printf("[orders.history] attempt %d for %s failed, retrying in %s: %v", attempt, email, delay, err)
		if err := sleepContext(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}
	return nil, fmt.Errorf("failed to load payment history: %w", lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// CreateOrder records a confirmed payment as a pending order and publishes
// an order.created event.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.Status = models.StatusPending
	if order.Date.IsZero() {
		order.Date = time.Now().UTC()
	}
	if err := s.validate.Struct(order); err != nil {
		return nil, err
	}

	res, err := s.api.CreatePayment(WithEmail(ctx, order.Email), order)
	if err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}
	order.ID = res.InsertedID

	if s.publisher == nil {
		log.Println("[orders] event publisher is not configured, skipping order.created")
		return order, nil
	}
	if err := s.publisher.PublishOrderCreated(rabbitmq.OrderEvent{
		OrderID:       order.ID,
		Email:         order.Email,
		Amount:        order.Price,
		TransactionID: order.TransactionID,
		Status:        string(order.Status),
		CreatedAt:     order.Date,
	}); err != nil {
		log.Printf("[orders] warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
	return order, nil
}
