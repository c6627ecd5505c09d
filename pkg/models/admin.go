package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried in credential tokens.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// OrganizationAdmin is the admin account of one organization. The record is
// materialized twice: once in the tenant's own database and once in the
// shared directory. Both copies are expected to be field-identical after any
// successful update; the mirror is best-effort, not transactional.
type OrganizationAdmin struct {
	ID               uuid.UUID  `db:"id"                 json:"id"`
	OrganizationID   uuid.UUID  `db:"organization_id"    json:"organization_id"`
	Name             string     `db:"name"               json:"name"`
	Email            string     `db:"email"              json:"email"`
	Phone            string     `db:"phone"              json:"phone"`
	PasswordHash     string     `db:"password_hash"      json:"-"`
	Role             string     `db:"role"               json:"role"`
	TaxID            string     `db:"tax_id"             json:"tax_id"`
	Address          string     `db:"address"            json:"address"`
	City             string     `db:"city"               json:"city"`
	State            string     `db:"state"              json:"state"`
	PostalCode       string     `db:"postal_code"        json:"postal_code"`
	Country          string     `db:"country"            json:"country"`
	IsActive         bool       `db:"is_active"          json:"is_active"`
	LastLoginAt      *time.Time `db:"last_login_at"      json:"last_login_at,omitempty"`
	ResetToken       *string    `db:"reset_token"        json:"-"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"         json:"updated_at"`
}
