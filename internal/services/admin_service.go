package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/search"
	"storefront/pkg/shopapi"
)

// AdminService answers the admin flag and manages users.
type AdminService struct {
	api *shopapi.Client
}

// NewAdminService creates a new AdminService.
func NewAdminService(api *shopapi.Client) *AdminService {
	return &AdminService{api: api}
}

// IsAdmin reports whether email has the admin role. No user is never admin.
func (s *AdminService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	admin, err := s.api.IsAdmin(WithEmail(ctx, email), email)
	if err != nil {
		return false, fmt.Errorf("failed to check admin flag: %w", err)
	}
	return admin, nil
}

// Users lists the users matching query.
func (s *AdminService) Users(ctx context.Context, query string) ([]models.User, error) {
	users, err := s.api.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return search.Users(users, query), nil
}

// ToggleRole flips the admin role of user id.
func (s *AdminService) ToggleRole(ctx context.Context, id string) error {
	if _, err := s.api.ToggleRole(ctx, id); err != nil {
		return fmt.Errorf("failed to change role of user %s: %w", id, err)
	}
	return nil
}

// DeleteUser removes user id.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.api.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
