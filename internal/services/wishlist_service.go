package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"storefront/internal/models"
	"storefront/pkg/shopapi"
)

// wishlistCommand is one optimistic change to a user's wishlist set.
type wishlistCommand struct {
	productID string
	add       bool
}

func (c wishlistCommand) apply(set *wishSet) {
	if c.add {
		set.add(c.productID)
	} else {
		set.remove(c.productID)
	}
}

func (c wishlistCommand) inverse() wishlistCommand {
	return wishlistCommand{productID: c.productID, add: !c.add}
}

// wishSet is an ordered identifier set.
type wishSet struct {
	ids []string
}

func (w *wishSet) has(id string) bool {
	for _, v := range w.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (w *wishSet) add(id string) {
	if !w.has(id) {
		w.ids = append(w.ids, id)
	}
}

func (w *wishSet) remove(id string) {
	for i, v := range w.ids {
		if v == id {
			w.ids = append(w.ids[:i], w.ids[i+1:]...)
			return
		}
	}
}

func (w *wishSet) snapshot() []string {
	return append([]string{}, w.ids...)
}

// WishlistService keeps each user's wishlist identifier set in sync with the
// backend.
type WishlistService struct {
	api      *shopapi.Client
	products *ProductService

	mu       sync.Mutex
	sets     map[string]*wishSet
	inflight map[string]bool
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(api *shopapi.Client, products *ProductService) *WishlistService {
	return &WishlistService{
		api:      api,
		products: products,
		sets:     make(map[string]*wishSet),
		inflight: make(map[string]bool),
	}
}

// List fetches the wishlist of email and returns its product ids in backend
// order. No user has an empty wishlist.
func (s *WishlistService) List(ctx context.Context, email string) ([]string, error) {
	if email == "" {
		return []string{}, nil
	}
	entries, err := s.api.Wishlist(WithEmail(ctx, email), email)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	set := &wishSet{}
	for _, e := range entries {
		set.add(e.ProductID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// An outstanding toggle already holds the newest local state.
	if current, ok := s.sets[email]; ok && s.pending(email) {
		return current.snapshot(), nil
	}
	s.sets[email] = set
	return set.snapshot(), nil
}

func (s *WishlistService) pending(email string) bool {
	prefix := email + "\x00"
	for key := range s.inflight {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// IsWished reports whether productID is in the last known set of email.
func (s *WishlistService) IsWished(email, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[email]
	return ok && set.has(productID)
}

// Products resolves the wishlist of email to product records.
func (s *WishlistService) Products(ctx context.Context, email string) ([]models.Product, error) {
	ids, err := s.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.products.GetProductsByIDs(WithEmail(ctx, email), ids)
}

// Toggle flips productID in the wishlist of email and reports the new state.
// The set changes immediately; if the backend write fails the exact inverse
// change is applied and the error returned.
func (s *WishlistService) Toggle(ctx context.Context, email, productID string) (bool, error) {
	if email == "" {
		return false, ErrSignInRequired
	}
	ctx = WithEmail(ctx, email)

	s.mu.Lock()
	_, loaded := s.sets[email]
	s.mu.Unlock()
	if !loaded {
		if _, err := s.List(ctx, email); err != nil {
			return false, err
		}
	}

	key := email + "\x00" + productID
	s.mu.Lock()
	if s.inflight[key] {
		s.mu.Unlock()
		return false, ErrToggleInFlight
	}
	set, ok := s.sets[email]
	if !ok {
		set = &wishSet{}
		s.sets[email] = set
	}
	cmd := wishlistCommand{productID: productID, add: !set.has(productID)}
	cmd.apply(set)
	s.inflight[key] = true
	s.mu.Unlock()

	entry := models.WishlistEntry{Email: email, ProductID: productID}
	var err error
	if cmd.add {
		_, err = s.api.AddWishlist(ctx, entry)
	} else {
		_, err = s.api.RemoveWishlist(ctx, entry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
	if err != nil {
		if set, ok := s.sets[email]; ok {
			cmd.inverse().apply(set)
		}
		log.Printf("[wishlist.toggle] %s %s rolled back: %v", email, productID, err)
		return !cmd.add, fmt.Errorf("failed to update wishlist: %w", err)
	}
	return cmd.add, nil
}

// Forget drops the cached set of email, on logout.
func (s *WishlistService) Forget(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, email)
}
