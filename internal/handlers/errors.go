package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"storefront/internal/checkout"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/services"
	"storefront/pkg/mailer"
	"storefront/pkg/shopapi"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validationFailed writes the per-field error map of a validation failure.
func validationFailed(c *fiber.Ctx, validationErrors validator.ValidationErrors) error {
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// parseBody decodes and validates the request body into out. It writes the
// error response itself and reports whether the handler may continue.
func parseBody(c *fiber.Ctx, validate *validator.Validate, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body for %s: %v", c.Path(), err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return false, validationFailed(c, validationErrors)
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	return true, nil
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// respondError maps a service error to its HTTP status.
func respondError(c *fiber.Ctx, err error, message string) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationFailed(c, validationErrors)
	}

	var signIn *services.SignInRequiredError
	if errors.As(err, &signIn) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":  "Sign in required",
			"redirect": middleware.LoginPath,
			"from":     signIn.From,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSignInRequired),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, shopapi.ErrUnauthorized):
		return middleware.Unauthorized(c, message)
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, shopapi.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyInCart),
		errors.Is(err, services.ErrToggleInFlight),
		errors.Is(err, services.ErrEmailTaken):
		status = fiber.StatusConflict
	case errors.Is(err, orders.ErrUnknownStatus),
		errors.Is(err, services.ErrInvalidProduct):
		status = fiber.StatusBadRequest
	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrDeleteNotAllowed),
		errors.Is(err, checkout.ErrSubmitDisabled),
		errors.Is(err, checkout.ErrCardRejected),
		errors.Is(err, checkout.ErrConfirmFailed),
		errors.Is(err, services.ErrEmptyCart):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, mailer.ErrNotConfigured):
		status = fiber.StatusServiceUnavailable
	default:
		var apiErr *shopapi.APIError
		if errors.As(err, &apiErr) {
			status = fiber.StatusBadGateway
		}
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
