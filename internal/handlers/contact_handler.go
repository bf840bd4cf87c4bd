package handlers

import (
	"context"

	"storefront/pkg/mailer"

	"github.com/gofiber/fiber/v2"
)

// ContactSender delivers contact messages. *mailer.Mailer implements it.
type ContactSender interface {
	Send(ctx context.Context, msg mailer.ContactMessage) error
}

// ContactHandler handles the contact form.
type ContactHandler struct {
	sender ContactSender
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(sender ContactSender) *ContactHandler {
	return &ContactHandler{sender: sender}
}

// RegisterRoutes registers the contact route.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleContact)
}

// HandleContact sends the submitted message.
func (h *ContactHandler) HandleContact(c *fiber.Ctx) error {
	var msg mailer.ContactMessage
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.sender.Send(c.UserContext(), msg); err != nil {
		return respondError(c, err, "Could not send message")
	}
	return c.JSON(fiber.Map{"message": "Message sent"})
}
