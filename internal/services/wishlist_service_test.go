package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWishlist(f *fixture) *services.WishlistService {
	products := services.NewProductService(f.api, repositories.NewMockProductCache(), time.Minute)
	return services.NewWishlistService(f.api, products)
}

func TestWishlistService_ToggleTwiceRestoresSet(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	f.backend.SeedWishlist(models.WishlistEntry{Email: "ann@example.com", ProductID: "a"})
	wishlist := newWishlist(f)
	ctx := context.Background()

	before, err := wishlist.List(ctx, "ann@example.com")
	require.NoError(t, err)

	for _, id := range []string{"a", "b"} {
		wished, err := wishlist.Toggle(ctx, "ann@example.com", id)
		require.NoError(t, err)
		assert.Equal(t, id == "b", wished)
		assert.Equal(t, wished, wishlist.IsWished("ann@example.com", id))

		wished, err = wishlist.Toggle(ctx, "ann@example.com", id)
		require.NoError(t, err)
		assert.Equal(t, id == "a", wished)

		after, err := wishlist.List(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	}
}

func TestWishlistService_FailedWriteRollsBack(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	wishlist := newWishlist(f)
	ctx := context.Background()

	f.backend.Fail(http.MethodPost, "/wishlist", http.StatusInternalServerError, 1)
	wished, err := wishlist.Toggle(ctx, "ann@example.com", "a")
	assert.Error(t, err)
	assert.False(t, wished)
	assert.False(t, wishlist.IsWished("ann@example.com", "a"))

	f.backend.SeedWishlist(models.WishlistEntry{Email: "ann@example.com", ProductID: "b"})
	_, err = wishlist.List(ctx, "ann@example.com")
	require.NoError(t, err)

	f.backend.Fail(http.MethodDelete, "/wishlist", http.StatusInternalServerError, 1)
	wished, err = wishlist.Toggle(ctx, "ann@example.com", "b")
	assert.Error(t, err)
	assert.True(t, wished)
	assert.True(t, wishlist.IsWished("ann@example.com", "b"))
	assert.Len(t, f.backend.WishlistRows(), 1)
}

func TestWishlistService_SecondToggleWhileInFlight(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	wishlist := newWishlist(f)
	_, err := wishlist.List(context.Background(), "ann@example.com")
	require.NoError(t, err)

	gate := f.backend.Hold(http.MethodPost, "/wishlist")
	done := make(chan error, 1)
	go func() {
		_, err := wishlist.Toggle(context.Background(), "ann@example.com", "a")
		done <- err
	}()
	<-gate.Entered

	assert.True(t, wishlist.IsWished("ann@example.com", "a"), "optimistic add is visible")
	_, err = wishlist.Toggle(context.Background(), "ann@example.com", "a")
	assert.True(t, errors.Is(err, services.ErrToggleInFlight))

	close(gate.Release)
	require.NoError(t, <-done)
	assert.True(t, wishlist.IsWished("ann@example.com", "a"))
	assert.Len(t, f.backend.WishlistRows(), 1)
}

func TestWishlistService_SignedOut(t *testing.T) {
	f := newFixture(t)
	wishlist := newWishlist(f)

	ids, err := wishlist.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = wishlist.Toggle(context.Background(), "", "a")
	assert.True(t, errors.Is(err, services.ErrSignInRequired))
	assert.Empty(t, f.backend.WishlistRows())
}

func TestWishlistService_Products(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	f.backend.SeedProducts(models.Product{ID: "a", Title: "Lamp"}, models.Product{ID: "b", Title: "Rug"})
	f.backend.SeedWishlist(models.WishlistEntry{Email: "ann@example.com", ProductID: "b"})
	wishlist := newWishlist(f)

	products, err := wishlist.Products(context.Background(), "ann@example.com")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Rug", products[0].Title)

	products, err = wishlist.Products(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, 1, f.backend.Calls(http.MethodPost, "/products/bulk"))
}
