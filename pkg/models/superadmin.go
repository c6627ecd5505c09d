package models

import (
	"time"

	"github.com/google/uuid"
)

// Superadmin is a platform operator account in the shared directory.
// Superadmins have implicit access to every tenant.
type Superadmin struct {
	ID               uuid.UUID  `db:"id"                 json:"id"`
	Name             string     `db:"name"               json:"name"`
	Email            string     `db:"email"              json:"email"`
	PasswordHash     string     `db:"password_hash"      json:"-"`
	IsActive         bool       `db:"is_active"          json:"is_active"`
	LastLoginAt      *time.Time `db:"last_login_at"      json:"last_login_at,omitempty"`
	ResetToken       *string    `db:"reset_token"        json:"-"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"         json:"updated_at"`
}
