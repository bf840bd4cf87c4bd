package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockCredentialRepository is a mock implementation of repositories.CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(cred *models.Credential) error {
	args := m.Called(cred)
	return args.Error(0)
}

func (m *MockCredentialRepository) GetByEmail(email string) (*models.Credential, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func TestAuthService_RegisterUser(t *testing.T) {
	f := newFixture(t)
	mockRepo := new(MockCredentialRepository)
	authService := services.NewAuthService(mockRepo, f.sessions, f.api, testJWTSecret, time.Hour)

	notFound := fmt.Errorf("credential: %w", repositories.ErrNotFound)
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, notFound).Once()
	mockRepo.On("Create", mock.MatchedBy(func(c *models.Credential) bool {
		return c.Email == "test@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("password123")) == nil
	})).Return(nil).Once()

	user, err := authService.RegisterUser(context.Background(), services.RegisterRequest{
		Name: "Test User", Email: " Test@Example.com ", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEmpty(t, user.ID, "backend assigns the user id")
	require.Len(t, f.backend.Users(), 1)
	assert.Equal(t, "Test User", f.backend.Users()[0].Name)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.Credential{Email: "test@example.com"}, nil).Once()
	_, err = authService.RegisterUser(context.Background(), services.RegisterRequest{
		Name: "Test User", Email: "test@example.com", Password: "password123",
	})
	assert.True(t, errors.Is(err, services.ErrEmailTaken))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	f := newFixture(t)
	mockRepo := new(MockCredentialRepository)
	authService := services.NewAuthService(mockRepo, f.sessions, f.api, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	cred := &models.Credential{Email: "test@example.com", Name: "Test User", PasswordHash: string(hashedPassword)}

	mockRepo.On("GetByEmail", "test@example.com").Return(cred, nil).Once()
	token, user, err := authService.LoginUser(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Test User", user.Name)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "test@example.com", claims["email"])
	assert.Equal(t, "Test User", claims["name"])
	assert.NotEmpty(t, claims["jti"])
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.InDelta(t, float64(time.Now().Add(time.Hour).Unix()), exp, 5, "token lives for the configured duration")

	session, err := f.sessions.Get("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
	assert.Equal(t, "Bearer "+token, f.backend.LastAuthorization(), "user sync carries the new token")

	// Wrong password
	mockRepo.On("GetByEmail", "test@example.com").Return(cred, nil).Once()
	_, _, err = authService.LoginUser(context.Background(), "test@example.com", "wrongpassword")
	assert.True(t, errors.Is(err, services.ErrInvalidCredentials))

	// Unknown user
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.LoginUser(context.Background(), "nobody@example.com", "password123")
	assert.True(t, errors.Is(err, services.ErrInvalidCredentials))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockCredentialRepository), repositories.NewMockSessionRepository(), nil, testJWTSecret, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "test@example.com",
		"exp":   jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", claims["email"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.True(t, errors.Is(err, services.ErrInvalidToken))

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "test@example.com",
		"exp":   jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.True(t, errors.Is(err, services.ErrInvalidToken))

	otherSecret, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(otherSecret)
	assert.True(t, errors.Is(err, services.ErrInvalidToken))
}

func TestAuthService_AuthenticateFollowsSession(t *testing.T) {
	f := newFixture(t)
	mockRepo := new(MockCredentialRepository)
	authService := services.NewAuthService(mockRepo, f.sessions, f.api, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mockRepo.On("GetByEmail", "test@example.com").
		Return(&models.Credential{Email: "test@example.com", PasswordHash: string(hashedPassword)}, nil)

	token, _, err := authService.LoginUser(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)

	session, err := authService.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", session.Email)

	require.NoError(t, authService.Logout("test@example.com"))
	_, err = authService.Authenticate(token)
	assert.True(t, errors.Is(err, services.ErrInvalidToken))
}

func TestSessions_ClearedByBackendRejection(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ann@example.com")
	f.backend.RequireToken("something-else")

	carts := services.NewCartService(f.api)
	_, err := carts.List(context.Background(), "ann@example.com")
	assert.Error(t, err)

	_, err = f.sessions.Get("ann@example.com")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
