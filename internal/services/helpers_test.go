package services_test

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/testutil"
	"storefront/pkg/shopapi"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// fixture wires a backend client to a fake backend the way the app does.
type fixture struct {
	backend  *testutil.Backend
	sessions *repositories.MockSessionRepository
	api      *shopapi.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	sessionRepo := repositories.NewMockSessionRepository()
	sessions := services.NewSessions(sessionRepo)
	api := shopapi.NewClient(
		shopapi.Config{BaseURL: backend.URL, Timeout: 2 * time.Second},
		sessions.TokenFor,
		sessions.Clear,
	)
	return &fixture{backend: backend, sessions: sessionRepo, api: api}
}

// signIn stores a session token for email.
func (f *fixture) signIn(t *testing.T, email string) {
	t.Helper()
	if err := f.sessions.Save(&models.Session{Email: email, Token: "token-" + email}); err != nil {
		t.Fatal(err)
	}
}

func price(v float64) *float64 { return &v }
