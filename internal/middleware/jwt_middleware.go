package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/shopapi"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middlewares.
const (
	LocalEmail = "email"
	LocalUser  = "user"
)

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// AdminChecker answers the admin flag of a user.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

var errNoToken = errors.New("authorization header is required")

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", errNoToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
		return "", errors.New("authorization header format must be 'Bearer <token>'")
	}
	return parts[1], nil
}

// Unauthorized writes the 401 body that tells the UI to go to the login page.
func Unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message":  message,
		"redirect": LoginPath,
		"from":     c.Path(),
	})
}

func bind(c *fiber.Ctx, session *models.Session) {
	c.Locals(LocalEmail, session.Email)
	c.Locals(LocalUser, &models.User{Email: session.Email, Name: session.Name, Photo: session.Photo})
	c.SetUserContext(services.WithEmail(c.UserContext(), session.Email))
}

// AuthRequired rejects requests without a valid, current session token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return Unauthorized(c, err.Error())
		}

		session, err := authService.Authenticate(token)
		if err != nil {
			log.Printf("[auth] rejected %s %s: %v", c.Method(), c.Path(), err)
			return Unauthorized(c, "Invalid or expired token")
		}

		bind(c, session)
		return c.Next()
	}
}

// OptionalAuth binds the user when a valid token is sent and lets anonymous
// requests through.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				log.Printf("[auth] ignoring malformed authorization on %s", c.Path())
			}
			return c.Next()
		}
		if session, err := authService.Authenticate(token); err == nil {
			bind(c, session)
		}
		return c.Next()
	}
}

// AdminRequired must run after AuthRequired and rejects non-admin users.
func AdminRequired(admins AdminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := CurrentEmail(c)
		if email == "" {
			return Unauthorized(c, "Sign in required")
		}

		isAdmin, err := admins.IsAdmin(c.UserContext(), email)
		if err != nil {
			if errors.Is(err, shopapi.ErrUnauthorized) {
				return Unauthorized(c, "Session expired")
			}
			log.Printf("[auth] admin check for %s failed: %v", email, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Could not verify admin access",
			})
		}
		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentEmail returns the email bound by the auth middlewares, or "".
func CurrentEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}

// CurrentUser returns the user bound by the auth middlewares, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}
