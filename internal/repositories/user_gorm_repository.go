package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMCredentialRepository is a GORM implementation of CredentialRepository.
type GORMCredentialRepository struct {
	db *gorm.DB
}

// NewGORMCredentialRepository creates a new instance of GORMCredentialRepository.
func NewGORMCredentialRepository(db *gorm.DB) *GORMCredentialRepository {
	return &GORMCredentialRepository{
		db: db,
	}
}

// Create stores a new login.
func (r *GORMCredentialRepository) Create(cred *models.Credential) error {
	if err := r.db.Create(cred).Error; err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

// GetByEmail retrieves a login by email.
func (r *GORMCredentialRepository) GetByEmail(email string) (*models.Credential, error) {
	var cred models.Credential
	if err := r.db.First(&cred, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("credential for %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get credential for %s: %w", email, err)
	}
	return &cred, nil
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Get retrieves the session of email.
func (r *GORMSessionRepository) Get(email string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session for %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session for %s: %w", email, err)
	}
	return &session, nil
}

// Save creates or replaces the session of session.Email.
func (r *GORMSessionRepository) Save(session *models.Session) error {
	if err := r.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session of email. Deleting a missing session is not an error.
func (r *GORMSessionRepository) Delete(email string) error {
	if err := r.db.Delete(&models.Session{}, "email = ?", email).Error; err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", email, err)
	}
	return nil
}
