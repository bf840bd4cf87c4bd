package services

import (
	"context"
	"errors"
	"log"

	"storefront/internal/repositories"
)

// Sessions exposes the stored bearer tokens to the backend client.
type Sessions struct {
	repo repositories.SessionRepository
}

// NewSessions creates a new Sessions.
func NewSessions(repo repositories.SessionRepository) *Sessions {
	return &Sessions{repo: repo}
}

// TokenFor returns the bearer token of the user bound to ctx.
func (s *Sessions) TokenFor(ctx context.Context) string {
	email := EmailFromContext(ctx)
	if email == "" {
		return ""
	}
	session, err := s.repo.Get(email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[sessions] loading token for %s: %v", email, err)
		}
		return ""
	}
	return session.Token
}

// Clear removes the session of the user bound to ctx. It is the backend
// client's unauthorized callback.
func (s *Sessions) Clear(ctx context.Context) {
	email := EmailFromContext(ctx)
	if email == "" {
		return
	}
	if err := s.repo.Delete(email); err != nil {
		log.Printf("[sessions] clearing session for %s: %v", email, err)
		return
	}
	log.Printf("[sessions] session for %s cleared", email)
}
