package mailer_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"storefront/pkg/mailer"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func fakeEmailJS(t *testing.T, status int) (*httptest.Server, func() []captured) {
	t.Helper()
	var mu sync.Mutex
	var got []captured

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Post("/api/v1.0/email/send", func(c *fiber.Ctx) error {
		var req captured
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		return c.Status(status).SendString("OK")
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), got...)
	}
}

func validMessage() mailer.ContactMessage {
	return mailer.ContactMessage{
		Name:    "Ann <b>Lee</b>",
		Email:   "ann@example.com",
		Subject: "Order question",
		Message: "Where is my order? <script>alert(1)</script>Thanks & regards",
	}
}

func TestMailer_Send(t *testing.T) {
	srv, requests := fakeEmailJS(t, fiber.StatusOK)
	m := mailer.New(mailer.Config{BaseURL: srv.URL, ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"})

	require.NoError(t, m.Send(context.Background(), validMessage()))

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "svc", got[0].ServiceID)
	assert.Equal(t, "tpl", got[0].TemplateID)
	assert.Equal(t, "pub", got[0].UserID)
	assert.Equal(t, "Ann Lee", got[0].TemplateParams["from_name"])
	assert.Equal(t, "Where is my order? Thanks & regards", got[0].TemplateParams["message"])
}

func TestMailer_NotConfigured(t *testing.T) {
	m := mailer.New(mailer.Config{ServiceID: "svc"})
	assert.False(t, m.Configured())
	assert.True(t, errors.Is(m.Send(context.Background(), validMessage()), mailer.ErrNotConfigured))
}

func TestMailer_ValidationFailsBeforeSending(t *testing.T) {
	srv, requests := fakeEmailJS(t, fiber.StatusOK)
	m := mailer.New(mailer.Config{BaseURL: srv.URL, ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"})

	msg := validMessage()
	msg.Email = "not-an-email"
	err := m.Send(context.Background(), msg)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Email", verrs[0].Field())
	assert.Empty(t, requests())
}

func TestMailer_ServiceFailure(t *testing.T) {
	srv, _ := fakeEmailJS(t, fiber.StatusBadRequest)
	m := mailer.New(mailer.Config{BaseURL: srv.URL, ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"})

	err := m.Send(context.Background(), validMessage())
	assert.ErrorContains(t, err, "400")
}
