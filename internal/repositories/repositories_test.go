package repositories_test

import (
	"errors"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repositories.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	return db
}

func TestGORMProductCache_ReplaceKeepsSourceOrder(t *testing.T) {
	cache := repositories.NewGORMProductCache(openTestDB(t))

	products, fetchedAt, err := cache.All()
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.True(t, fetchedAt.IsZero())

	orig := 80.0
	err = cache.Replace([]models.Product{
		{ID: "z", Title: "Zebra print rug", Price: 60, OriginalPrice: &orig, Discount: 25, Tags: []models.Tag{models.TagOffered}},
		{ID: "a", Title: "Armchair", Price: 300, Features: []string{"oak frame"}},
		{ID: "m", Title: "Mirror", Price: 90, Colors: []string{"gold", "silver"}},
	})
	require.NoError(t, err)

	products, fetchedAt, err = cache.All()
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.False(t, fetchedAt.IsZero())
	assert.Equal(t, "z", products[0].ID)
	assert.Equal(t, "a", products[1].ID)
	assert.Equal(t, "m", products[2].ID)
	assert.Equal(t, []models.Tag{models.TagOffered}, products[0].Tags)
	require.NotNil(t, products[0].OriginalPrice)
	assert.Equal(t, 80.0, *products[0].OriginalPrice)
	assert.Equal(t, []string{"gold", "silver"}, products[2].Colors)

	require.NoError(t, cache.Replace([]models.Product{{ID: "b", Title: "Bench"}}))
	products, _, err = cache.All()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "b", products[0].ID)

	require.NoError(t, cache.Invalidate())
	products, _, err = cache.All()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGORMSessionRepository(t *testing.T) {
	repo := repositories.NewGORMSessionRepository(openTestDB(t))

	_, err := repo.Get("ann@example.com")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	require.NoError(t, repo.Save(&models.Session{Email: "ann@example.com", Token: "t1"}))
	require.NoError(t, repo.Save(&models.Session{Email: "ann@example.com", Token: "t2"}))

	session, err := repo.Get("ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "t2", session.Token)

	require.NoError(t, repo.Delete("ann@example.com"))
	require.NoError(t, repo.Delete("ann@example.com"))
	_, err = repo.Get("ann@example.com")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestGORMCredentialRepository(t *testing.T) {
	repo := repositories.NewGORMCredentialRepository(openTestDB(t))

	require.NoError(t, repo.Create(&models.Credential{Email: "ann@example.com", Name: "Ann", PasswordHash: "hash"}))
	assert.Error(t, repo.Create(&models.Credential{Email: "ann@example.com"}))

	cred, err := repo.GetByEmail("ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", cred.Name)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := repositories.OpenDatabase("oracle", "")
	assert.Error(t, err)
}
