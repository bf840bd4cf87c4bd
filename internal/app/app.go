// Package app assembles the storefront HTTP server.
package app

import (
	"errors"
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/mailer"
	"storefront/pkg/payment"
	"storefront/pkg/shopapi"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps are the collaborators New does not build from configuration.
// Processor and Contact default to the configured Stripe and EmailJS clients.
type Deps struct {
	DB        *gorm.DB
	Processor payment.Processor
	Contact   handlers.ContactSender
	Publisher services.EventPublisher
	Retry     services.RetryPolicy
	// Quiet disables the request logger.
	Quiet bool
}

// New wires repositories, services and handlers into a Fiber app.
func New(cfg config.Config, deps Deps) (*fiber.App, error) {
	if deps.DB == nil {
		return nil, errors.New("app: database is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("app: JWT_SECRET is required")
	}
	if deps.Processor == nil {
		deps.Processor = payment.NewStripeProcessor(cfg.PaymentAPIURL, cfg.PaymentPublishableKey, cfg.APITimeout)
	}
	if deps.Contact == nil {
		deps.Contact = mailer.New(mailer.Config{
			BaseURL:    cfg.EmailAPIURL,
			ServiceID:  cfg.EmailServiceID,
			TemplateID: cfg.EmailTemplateID,
			PublicKey:  cfg.EmailPublicKey,
			Timeout:    cfg.APITimeout,
		})
	}

	// --- Repositories ---
	sessionRepo := repositories.NewGORMSessionRepository(deps.DB)
	credentialRepo := repositories.NewGORMCredentialRepository(deps.DB)
	productCache := repositories.NewGORMProductCache(deps.DB)

	// --- Backend client ---
	sessions := services.NewSessions(sessionRepo)
	api := shopapi.NewClient(
		shopapi.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout},
		sessions.TokenFor,
		sessions.Clear,
	)

	// --- Services ---
	authService := services.NewAuthService(credentialRepo, sessionRepo, api, cfg.JWTSecret, cfg.TokenDuration)
	productService := services.NewProductService(api, productCache, cfg.CatalogCacheTTL)
	cartService := services.NewCartService(api)
	wishlistService := services.NewWishlistService(api, productService)
	orderService := services.NewOrderService(api, deps.Publisher, deps.Retry)
	adminService := services.NewAdminService(api)
	reviewService := services.NewReviewService(api)
	checkoutService := services.NewCheckoutService(api, cartService, orderService, deps.Processor)

	// --- Handlers ---
	requireAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: deps.Quiet,
	})
	app.Use(recover.New())
	if !deps.Quiet {
		app.Use(logger.New())
	}

	health := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"messaging": deps.Publisher != nil,
			"payments":  deps.Processor.Ready(),
		})
	}
	app.Get("/health", health)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/health", health)

	handlers.NewAuthHandler(authService, wishlistService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewCatalogHandler(productService, wishlistService, reviewService).RegisterRoutes(apiV1, optionalAuth)
	handlers.NewCartHandler(cartService, productService).RegisterRoutes(apiV1, requireAuth, optionalAuth)
	handlers.NewWishlistHandler(wishlistService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewContactHandler(deps.Contact).RegisterRoutes(apiV1)

	orderHandler := handlers.NewOrderHandler(orderService)
	orderHandler.RegisterRoutes(apiV1, requireAuth)

	admin := apiV1.Group("/admin", requireAuth, middleware.AdminRequired(adminService))
	orderHandler.RegisterAdminRoutes(admin)
	handlers.NewAdminHandler(adminService, productService).RegisterAdminRoutes(admin)

	return app, nil
}
