package models

import "time"

// RoleAdmin is the only role the storefront distinguishes from ordinary users.
const RoleAdmin = "admin"

// User is a shop account as the backend reports it.
type User struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credential holds the email/password login for a storefront account.
type Credential struct {
	Email        string `gorm:"primaryKey;type:varchar(255)"`
	Name         string `gorm:"type:varchar(100)"`
	Photo        string
	PasswordHash string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the bearer token persisted for a signed-in user. It is read by every
// authenticated backend call and removed when the backend rejects it.
type Session struct {
	Email     string `gorm:"primaryKey;type:varchar(255)"`
	Token     string `gorm:"type:text"`
	Name      string
	Photo     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
