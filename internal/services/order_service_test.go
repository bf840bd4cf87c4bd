package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/shopapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(event rabbitmq.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

var fastRetry = services.RetryPolicy{Attempts: 3, Base: time.Millisecond, Max: 4 * time.Millisecond}

func TestRetryPolicy_Delay(t *testing.T) {
	p := services.DefaultRetryPolicy
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 16*time.Second, p.Delay(5))
	assert.Equal(t, 30*time.Second, p.Delay(6))
	assert.Equal(t, 30*time.Second, p.Delay(20))
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	seeded := f.backend.SeedOrders(
		models.Order{Email: "ann@example.com", Price: 10, TransactionID: "pi_1", Status: models.StatusPending},
		models.Order{Email: "ann@example.com", Price: 10, TransactionID: "pi_2", Status: models.StatusDelivered},
	)
	service := services.NewOrderService(f.api, nil, fastRetry)

	order, err := service.UpdateOrderStatus(context.Background(), seeded[0].ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, models.StatusConfirmed, f.backend.Orders()[0].Status)

	_, err = service.UpdateOrderStatus(context.Background(), seeded[0].ID, "delivered")
	assert.True(t, errors.Is(err, orders.ErrInvalidTransition))

	_, err = service.UpdateOrderStatus(context.Background(), seeded[1].ID, "processing")
	assert.True(t, errors.Is(err, orders.ErrInvalidTransition), "delivered is terminal")

	_, err = service.UpdateOrderStatus(context.Background(), seeded[0].ID, "lost")
	assert.True(t, errors.Is(err, orders.ErrUnknownStatus))

	_, err = service.UpdateOrderStatus(context.Background(), "missing", "confirmed")
	assert.True(t, errors.Is(err, shopapi.ErrNotFound))
}

func TestOrderService_DeleteOrder(t *testing.T) {
	f := newFixture(t)
	seeded := f.backend.SeedOrders(
		models.Order{Email: "ann@example.com", Price: 10, TransactionID: "pi_1", Status: models.StatusShipped},
		models.Order{Email: "ann@example.com", Price: 10, TransactionID: "pi_2", Status: models.StatusCancelled},
	)
	service := services.NewOrderService(f.api, nil, fastRetry)

	err := service.DeleteOrder(context.Background(), seeded[0].ID)
	assert.True(t, errors.Is(err, orders.ErrDeleteNotAllowed))

	require.NoError(t, service.DeleteOrder(context.Background(), seeded[1].ID))
	assert.Len(t, f.backend.Orders(), 1)
}

func TestOrderService_SearchOrders(t *testing.T) {
	f := newFixture(t)
	f.backend.SeedOrders(
		models.Order{ID: "0000000000000000008abc12", Email: "ann@example.com", Status: models.StatusDelivered},
		models.Order{ID: "0000000000000000000fff00", Email: "bob@example.com", Status: models.StatusPending},
	)
	service := services.NewOrderService(f.api, nil, fastRetry)

	list, err := service.SearchOrders(context.Background(), "8ab", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ann@example.com", list[0].Email)

	list, err = service.SearchOrders(context.Background(), "", "completed")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusDelivered, list[0].Status)
}

func TestOrderService_HistoryRetries(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	f.backend.SeedOrders(models.Order{Email: "ann@example.com", Price: 10, TransactionID: "pi_1"})
	service := services.NewOrderService(f.api, nil, fastRetry)

	path := "/payments/user/ann@example.com"
	f.backend.Fail(http.MethodGet, path, http.StatusServiceUnavailable, 2)
	list, err := service.History(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 3, f.backend.Calls(http.MethodGet, path))

	f.backend.Fail(http.MethodGet, path, http.StatusServiceUnavailable, 3)
	_, err = service.History(context.Background(), "ann@example.com")
	assert.Error(t, err)
	assert.Equal(t, 6, f.backend.Calls(http.MethodGet, path))
}

func TestOrderService_HistoryDoesNotRetryUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	service := services.NewOrderService(f.api, nil, fastRetry)

	path := "/payments/user/ann@example.com"
	f.backend.Fail(http.MethodGet, path, http.StatusUnauthorized, 3)
	_, err := service.History(context.Background(), "ann@example.com")
	assert.True(t, errors.Is(err, shopapi.ErrUnauthorized))
	assert.Equal(t, 1, f.backend.Calls(http.MethodGet, path))

	_, err = service.History(context.Background(), "")
	assert.True(t, errors.Is(err, services.ErrSignInRequired))
}

func TestOrderService_HistoryStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	service := services.NewOrderService(f.api, nil, services.RetryPolicy{Attempts: 3, Base: time.Hour, Max: time.Hour})

	path := "/payments/user/ann@example.com"
	f.backend.Fail(http.MethodGet, path, http.StatusServiceUnavailable, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := service.History(ctx, "ann@example.com")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, f.backend.Calls(http.MethodGet, path))
}

func TestOrderService_CreateOrderPublishesEvent(t *testing.T) {
	f := newFixture(t)
	publisher := new(MockPublisher)
	service := services.NewOrderService(f.api, publisher, fastRetry)

	publisher.On("PublishOrderCreated", mock.MatchedBy(func(e rabbitmq.OrderEvent) bool {
		return e.Email == "ann@example.com" && e.Amount == 2000 && e.TransactionID == "pi_9" && e.Status == "pending" && e.OrderID != ""
	})).Return(errors.New("broker down")).Once()

	order, err := service.CreateOrder(context.Background(), &models.Order{
		Email: "ann@example.com", Price: 2000, TransactionID: "pi_9", Status: models.StatusDelivered,
	})
	require.NoError(t, err, "a publish failure does not fail the order")
	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotEmpty(t, order.ID)
	publisher.AssertExpectations(t)

	_, err = service.CreateOrder(context.Background(), &models.Order{Email: "ann@example.com", Price: 0, TransactionID: "pi_10"})
	assert.Error(t, err)
	assert.Len(t, f.backend.Orders(), 1)
}
