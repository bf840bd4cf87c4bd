package repositories

import (
	"fmt"
	"sync"
	"time"

	"storefront/internal/models"
)

// MockSessionRepository is an in-memory implementation of SessionRepository.
type MockSessionRepository struct {
	sessions map[string]models.Session
	mu       sync.RWMutex
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]models.Session),
	}
}

// Get returns the session of email.
func (r *MockSessionRepository) Get(email string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[email]
	if !ok {
		return nil, fmt.Errorf("session for %s: %w", email, ErrNotFound)
	}
	return &session, nil
}

// Save stores a session.
func (r *MockSessionRepository) Save(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	session.UpdatedAt = time.Now()
	r.sessions[session.Email] = *session
	return nil
}

// Delete removes the session of email.
func (r *MockSessionRepository) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, email)
	return nil
}
