package services

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/pkg/payment"
	"storefront/pkg/shopapi"

	"github.com/shopspring/decimal"
)

// CheckoutView is the checkout page.
type CheckoutView struct {
	Items     []models.CartItem `json:"items"`
	Total     string            `json:"total"`
	Checkout  checkout.Status   `json:"checkout"`
	Ready     bool              `json:"processorReady"`
	CanSubmit bool              `json:"canSubmit"`
}

// CheckoutResult is returned after a successful payment.
type CheckoutResult struct {
	Order *models.Order     `json:"order"`
	Cart  []models.CartItem `json:"cart"`
}

// CheckoutService keeps one checkout flow per user.
type CheckoutService struct {
	api       *shopapi.Client
	carts     *CartService
	orders    *OrderService
	processor payment.Processor

	mu    sync.Mutex
	flows map[string]*checkout.Flow
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(api *shopapi.Client, carts *CartService, orders *OrderService, processor payment.Processor) *CheckoutService {
	return &CheckoutService{
		api:       api,
		carts:     carts,
		orders:    orders,
		processor: processor,
		flows:     make(map[string]*checkout.Flow),
	}
}

func (s *CheckoutService) flow(email string) *checkout.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[email]
	if !ok {
		f = checkout.NewFlow(s.processor)
		s.flows[email] = f
	}
	return f
}

func (s *CheckoutService) requestIntent(email string) checkout.IntentFunc {
	return func(ctx context.Context, amount decimal.Decimal) (string, error) {
		intent, err := s.api.CreatePaymentIntent(WithEmail(ctx, email), amount.InexactFloat64())
		if err != nil {
			return "", err
		}
		return intent.ClientSecret, nil
	}
}

func (s *CheckoutService) view(email string, items []models.CartItem) *CheckoutView {
	f := s.flow(email)
	return &CheckoutView{
		Items:     items,
		Total:     s.carts.Total(items).StringFixed(2),
		Checkout:  f.Snapshot(),
		Ready:     s.processor != nil && s.processor.Ready(),
		CanSubmit: f.CanSubmit(),
	}
}

// View returns the cart and checkout state of email.
func (s *CheckoutService) View(ctx context.Context, email string) (*CheckoutView, error) {
	if email == "" {
		return nil, &SignInRequiredError{From: "/checkout"}
	}
	items, err := s.carts.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.view(email, items), nil
}

// Prepare requests a payment intent for the current cart total.
func (s *CheckoutService) Prepare(ctx context.Context, email string) (*CheckoutView, error) {
	if email == "" {
		return nil, &SignInRequiredError{From: "/checkout"}
	}
	items, err := s.carts.List(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.flow(email).Prepare(ctx, s.carts.Total(items), s.requestIntent(email)); err != nil {
		return nil, err
	}
	return s.view(email, items), nil
}

// Submit pays for the cart of email with card. On success the order is
// recorded as pending and the refreshed cart returned.
func (s *CheckoutService) Submit(ctx context.Context, email string, card payment.Card) (*CheckoutResult, error) {
	if email == "" {
		return nil, &SignInRequiredError{From: "/checkout"}
	}
	items, err := s.carts.List(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	f := s.flow(email)
	total := s.carts.Total(items)
	if !f.Amount().Equal(total) || !f.Snapshot().HasIntent {
		if err := f.Prepare(ctx, total, s.requestIntent(email)); err != nil {
			return nil, err
		}
	}

	receipt, err := f.Submit(ctx, card)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Email:         email,
		Price:         receipt.Amount.InexactFloat64(),
		TransactionID: receipt.TransactionID,
		CartIDs:       make([]string, 0, len(items)),
		ProductIDs:    make([]string, 0, len(items)),
	}
	for _, item := range items {
		order.CartIDs = append(order.CartIDs, item.ID)
		order.ProductIDs = append(order.ProductIDs, item.ProductID)
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("payment %s succeeded but was not recorded: %w", receipt.TransactionID, err)
	}

	cart, err := s.carts.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: created, Cart: cart}, nil
}
