package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription plans an organization can be on.
const (
	PlanBasic    = "basic"
	PlanStandard = "standard"
	PlanPremium  = "premium"
)

// Organization statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

// Organization is a row in the shared directory. OrganizationDB is the
// routing key: it names the tenant's dedicated database and never changes
// after creation.
type Organization struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	Name           string    `db:"name"            json:"name"`
	Slug           string    `db:"slug"            json:"slug"`
	OrganizationDB string    `db:"organization_db" json:"organization_db"`
	AdminEmail     string    `db:"admin_email"     json:"admin_email"`
	AdminPhone     string    `db:"admin_phone"     json:"admin_phone"`
	Plan           string    `db:"plan"            json:"plan"`
	UserLimit      int       `db:"user_limit"      json:"user_limit"`
	Status         string    `db:"status"          json:"status"`
	EnabledModules []string  `db:"enabled_modules" json:"enabled_modules"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// Summary is the embedded organization view returned alongside admin records.
type OrganizationSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Slug   string    `json:"slug"`
	Plan   string    `json:"plan"`
	Status string    `json:"status"`
}

// Summary strips routing and contact details for embedding in responses.
func (o *Organization) Summary() OrganizationSummary {
	return OrganizationSummary{
		ID:     o.ID,
		Name:   o.Name,
		Slug:   o.Slug,
		Plan:   o.Plan,
		Status: o.Status,
	}
}

// ValidPlan reports whether p is a known subscription plan name.
func ValidPlan(p string) bool {
	return p == PlanBasic || p == PlanStandard || p == PlanPremium
}

// ValidStatus reports whether s is a known organization status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusSuspended || s == StatusPending
}
