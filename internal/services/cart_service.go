package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/pkg/shopapi"

	"github.com/shopspring/decimal"
)

// CartService manages the signed-in user's cart rows on the backend.
type CartService struct {
	api   *shopapi.Client
	locks *keyedMutex
}

// NewCartService creates a new CartService.
func NewCartService(api *shopapi.Client) *CartService {
	return &CartService{
		api:   api,
		locks: newKeyedMutex(),
	}
}

// List returns the cart of email. No user has an empty cart.
func (s *CartService) List(ctx context.Context, email string) ([]models.CartItem, error) {
	if email == "" {
		return []models.CartItem{}, nil
	}
	items, err := s.api.Carts(WithEmail(ctx, email), email)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// Add puts product in the cart of email with a price snapshot and returns the
// refreshed cart. A product already in the cart is not added twice.
func (s *CartService) Add(ctx context.Context, email string, product models.Product) ([]models.CartItem, error) {
	if email == "" {
		return nil, &SignInRequiredError{From: "/products/" + product.ID}
	}
	ctx = WithEmail(ctx, email)

	unlock := s.locks.Lock(email + "\x00" + product.ID)
	defer unlock()

	items, err := s.api.Carts(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	for _, item := range items {
		if item.ProductID == product.ID {
			return nil, ErrAlreadyInCart
		}
	}

	image := product.Image
	if image == "" && len(product.Images) > 0 {
		image = product.Images[0]
	}
	if _, err := s.api.AddCart(ctx, &models.CartItem{
		Email:     email,
		ProductID: product.ID,
		Title:     product.Title,
		Image:     image,
		Price:     product.Price,
		Quantity:  1,
	}); err != nil {
		return nil, fmt.Errorf("failed to add %s to cart: %w", product.ID, err)
	}

	return s.List(ctx, email)
}

// owned checks that the row id belongs to email.
func (s *CartService) owned(ctx context.Context, email, id string) error {
	items, err := s.api.Carts(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	for _, item := range items {
		if item.ID == id {
			return nil
		}
	}
	return fmt.Errorf("cart item %s: %w", id, shopapi.ErrNotFound)
}

// Remove deletes one row from the cart of email and returns the refreshed cart.
func (s *CartService) Remove(ctx context.Context, email, id string) ([]models.CartItem, error) {
	if email == "" {
		return nil, &SignInRequiredError{From: "/cart"}
	}
	ctx = WithEmail(ctx, email)
	if err := s.owned(ctx, email, id); err != nil {
		return nil, err
	}
	if _, err := s.api.DeleteCart(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to remove cart item %s: %w", id, err)
	}
	return s.List(ctx, email)
}

// SetQuantity updates a row's quantity, clamped to at least 1.
func (s *CartService) SetQuantity(ctx context.Context, email, id string, quantity int) ([]models.CartItem, error) {
	if email == "" {
		return nil, &SignInRequiredError{From: "/cart"}
	}
	if quantity < 1 {
		quantity = 1
	}
	ctx = WithEmail(ctx, email)
	if err := s.owned(ctx, email, id); err != nil {
		return nil, err
	}
	if _, err := s.api.UpdateCartQuantity(ctx, id, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart item %s: %w", id, err)
	}
	return s.List(ctx, email)
}

// Total sums price × quantity over items.
func (s *CartService) Total(items []models.CartItem) decimal.Decimal {
	return pricing.CartTotal(items)
}
