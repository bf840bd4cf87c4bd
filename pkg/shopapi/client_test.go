package shopapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/testutil"
	"storefront/pkg/shopapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(backend *testutil.Backend, token string, onUnauthorized func(context.Context)) *shopapi.Client {
	return shopapi.NewClient(
		shopapi.Config{BaseURL: backend.URL + "/", Timeout: 2 * time.Second},
		func(context.Context) string { return token },
		onUnauthorized,
	)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.RequireToken("secret-token")
	backend.SeedProducts(models.Product{Title: "Lamp", Price: 40})

	client := newClient(backend, "secret-token", nil)
	products, err := client.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Bearer secret-token", backend.LastAuthorization())
}

func TestClient_AnonymousCallsCarryNoHeader(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := newClient(backend, "", nil)

	_, err := client.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, backend.LastAuthorization())
}

func TestClient_UnauthorizedInvokesCallback(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		backend := testutil.NewBackend(t)
		backend.Fail(http.MethodGet, "/carts", status, 1)

		cleared := 0
		client := newClient(backend, "stale", func(context.Context) { cleared++ })

		_, err := client.Carts(context.Background(), "ann@example.com")
		assert.True(t, errors.Is(err, shopapi.ErrUnauthorized), "status %d should map to ErrUnauthorized", status)
		assert.Equal(t, 1, cleared)

		var apiErr *shopapi.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, status, apiErr.Status)
		assert.Contains(t, apiErr.Message, "injected failure")
	}
}

func TestClient_ServerErrorDoesNotClearSession(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Fail(http.MethodGet, "/products", http.StatusInternalServerError, 1)

	cleared := false
	client := newClient(backend, "tok", func(context.Context) { cleared = true })

	_, err := client.Products(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, shopapi.ErrUnauthorized))
	assert.False(t, cleared)
}

func TestClient_NotFound(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := newClient(backend, "", nil)

	product, err := client.Product(context.Background(), "missing")
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, shopapi.ErrNotFound))
}

func TestClient_ProductQueries(t *testing.T) {
	backend := testutil.NewBackend(t)
	seeded := backend.SeedProducts(
		models.Product{Title: "Red Chair", Category: "Furniture", Price: 120},
		models.Product{Title: "Blue Chair", Category: "Furniture", Price: 110},
		models.Product{Title: "Desk Lamp", Category: "Lighting", Price: 35},
	)
	client := newClient(backend, "", nil)
	ctx := context.Background()

	found, err := client.SearchProducts(ctx, "chair")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	byCategory, err := client.ProductsByCategory(ctx, "Lighting")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Desk Lamp", byCategory[0].Title)

	bulk, err := client.ProductsByIDs(ctx, []string{seeded[0].ID, seeded[2].ID})
	require.NoError(t, err)
	assert.Len(t, bulk, 2)

	one, err := client.Product(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Chair", one.Title)
}

func TestClient_CartAndWishlistRoundTrip(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := newClient(backend, "", nil)
	ctx := context.Background()

	res, err := client.AddCart(ctx, &models.CartItem{Email: "ann@example.com", ProductID: "p1", Price: 10, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.NotEmpty(t, res.InsertedID)

	_, err = client.UpdateCartQuantity(ctx, res.InsertedID, 3)
	require.NoError(t, err)

	items, err := client.Carts(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	entry := models.WishlistEntry{Email: "ann@example.com", ProductID: "p1"}
	_, err = client.AddWishlist(ctx, entry)
	require.NoError(t, err)
	entries, err := client.Wishlist(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, []models.WishlistEntry{entry}, entries)

	_, err = client.RemoveWishlist(ctx, entry)
	require.NoError(t, err)
	assert.Empty(t, backend.WishlistRows())
}

func TestClient_PaymentIntentAndAdmin(t *testing.T) {
	backend := testutil.NewBackend(t)
	users := backend.SeedUsers(
		models.User{Email: "boss@example.com", Role: models.RoleAdmin},
		models.User{Email: "ann@example.com"},
	)
	client := newClient(backend, "", nil)
	ctx := context.Background()

	intent, err := client.CreatePaymentIntent(ctx, 20)
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ClientSecret)

	admin, err := client.IsAdmin(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.True(t, admin)

	_, err = client.ToggleRole(ctx, users[1].ID)
	require.NoError(t, err)
	admin, err = client.IsAdmin(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, admin)
}

func TestClient_HonoursCanceledContext(t *testing.T) {
	backend := testutil.NewBackend(t)
	client := newClient(backend, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Products(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, backend.Calls(http.MethodGet, "/products"))
}
