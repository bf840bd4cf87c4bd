package repositories

import "storefront/internal/models"

// CredentialRepository defines the interface for email/password logins.
type CredentialRepository interface {
	Create(cred *models.Credential) error
	GetByEmail(email string) (*models.Credential, error)
}

// SessionRepository persists the bearer token of each signed-in user.
type SessionRepository interface {
	Get(email string) (*models.Session, error)
	Save(session *models.Session) error
	Delete(email string) error
}
