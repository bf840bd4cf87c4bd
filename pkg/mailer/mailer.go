// Package mailer delivers contact form messages through the EmailJS REST API.
package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultURL is the EmailJS API host.
const DefaultURL = "https://api.emailjs.com"

// ErrNotConfigured is returned when service, template or public key is missing.
var ErrNotConfigured = errors.New("email service is not configured")

// ContactMessage is a message submitted from the contact page.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Config holds EmailJS credentials.
type Config struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	Timeout    time.Duration
}

// Mailer sends contact messages.
type Mailer struct {
	cfg      Config
	http     *fiber.Client
	policy   *bluemonday.Policy
	validate *validator.Validate
}

// New creates a Mailer.
func New(cfg Config) *Mailer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Mailer{
		cfg: cfg,
		http: &fiber.Client{
			UserAgent:   "storefront",
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
		policy:   bluemonday.StrictPolicy(),
		validate: validator.New(),
	}
}

// Configured reports whether all credentials are present.
func (m *Mailer) Configured() bool {
	return m.cfg.ServiceID != "" && m.cfg.TemplateID != "" && m.cfg.PublicKey != ""
}

// Validate checks msg against its field rules.
func (m *Mailer) Validate(msg ContactMessage) error {
	return m.validate.Struct(msg)
}

// Sanitize strips markup from every field. The strict policy escapes what it
// keeps, so entities are decoded back to plain text.
func (m *Mailer) Sanitize(msg ContactMessage) ContactMessage {
	clean := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(m.policy.Sanitize(s)))
	}
	return ContactMessage{
		Name:    clean(msg.Name),
		Email:   strings.TrimSpace(msg.Email),
		Subject: clean(msg.Subject),
		Message: clean(msg.Message),
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send validates, sanitizes and delivers msg.
func (m *Mailer) Send(ctx context.Context, msg ContactMessage) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := m.Validate(msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg = m.Sanitize(msg)

	a := m.http.Post(m.cfg.BaseURL + "/api/v1.0/email/send")
	a.Timeout(m.cfg.Timeout)
	a.JSON(sendRequest{
		ServiceID:  m.cfg.ServiceID,
		TemplateID: m.cfg.TemplateID,
		UserID:     m.cfg.PublicKey,
		TemplateParams: map[string]string{
			"from_name":  msg.Name,
			"from_email": msg.Email,
			"subject":    msg.Subject,
			"message":    msg.Message,
		},
	})

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("failed to send contact message: %w", errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return fmt.Errorf("email service answered %d: %s", status, strings.TrimSpace(string(body)))
	}

	log.Printf("[mailer] contact message from %s delivered", msg.Email)
	return nil
}
