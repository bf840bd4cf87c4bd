package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/shopapi"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Photo    string `json:"photo" validate:"omitempty,url"`
}

// AuthService handles sign-up, sign-in and the stored bearer session.
type AuthService struct {
	creds         repositories.CredentialRepository
	sessions      repositories.SessionRepository
	api           *shopapi.Client
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(creds repositories.CredentialRepository, sessions repositories.SessionRepository, api *shopapi.Client, jwtSecret string, tokenDuration time.Duration) *AuthService {
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	return &AuthService{
		creds:         creds,
		sessions:      sessions,
		api:           api,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// RegisterUser stores a login and announces the user to the backend.
func (s *AuthService) RegisterUser(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.creds.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cred := &models.Credential{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Photo:        req.Photo,
		PasswordHash: string(hashedPassword),
	}
	if err := s.creds.Create(cred); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &models.User{Email: email, Name: cred.Name, Photo: cred.Photo}
	s.syncUser(ctx, user)
	return user, nil
}

// syncUser upserts the user on the backend. The backend ignores known emails.
func (s *AuthService) syncUser(ctx context.Context, user *models.User) {
	if s.api == nil {
		return
	}
	res, err := s.api.SaveUser(ctx, user)
	if err != nil {
		log.Printf("[auth] saving user %s on backend: %v", user.Email, err)
		return
	}
	if res.InsertedID != "" {
		user.ID = res.InsertedID
	}
}

// LoginUser checks the password, issues a JWT and stores it as the session.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cred, err := s.creds.GetByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": cred.Email,
		"name":  cred.Name,
		"exp":   now.Add(s.tokenDuration).Unix(),
		"iat":   now.Unix(),
		"jti":   uuid.NewString(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.sessions.Save(&models.Session{
		Email: cred.Email,
		Token: tokenString,
		Name:  cred.Name,
		Photo: cred.Photo,
	}); err != nil {
		return "", nil, err
	}

	user := &models.User{Email: cred.Email, Name: cred.Name, Photo: cred.Photo}
	s.syncUser(WithEmail(ctx, cred.Email), user)
	return tokenString, user, nil
}

// Logout clears the session of email.
func (s *AuthService) Logout(email string) error {
	return s.sessions.Delete(email)
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Authenticate validates tokenString and checks it is still the stored
// session token, so logout and backend rejections end it.
func (s *AuthService) Authenticate(tokenString string) (*models.Session, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}

	session, err := s.sessions.Get(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no session for %s", ErrInvalidToken, email)
		}
		return nil, err
	}
	if session.Token != tokenString {
		return nil, fmt.Errorf("%w: session for %s was replaced", ErrInvalidToken, email)
	}
	return session, nil
}
