package services

import (
	"errors"
	"fmt"
)

var (
	// ErrSignInRequired is returned when an operation needs a signed-in user.
	ErrSignInRequired = errors.New("sign in required")
	// ErrAlreadyInCart is returned when the product is already in the user's cart.
	ErrAlreadyInCart = errors.New("product is already in the cart")
	// ErrToggleInFlight is returned while an earlier toggle of the same product
	// is still being written.
	ErrToggleInFlight = errors.New("wishlist change already in progress")
	// ErrEmptyCart is returned when checking out a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidProduct wraps product rule violations.
	ErrInvalidProduct = errors.New("invalid product")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// SignInRequiredError carries the path the user should return to after
// signing in.
type SignInRequiredError struct {
	From string
}

func (e *SignInRequiredError) Error() string {
	return fmt.Sprintf("sign in required (from %s)", e.From)
}

// Is makes errors.Is(err, ErrSignInRequired) hold.
func (e *SignInRequiredError) Is(target error) bool {
	return target == ErrSignInRequired
}
