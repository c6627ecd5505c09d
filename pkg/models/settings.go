package models

import (
	"time"

	"github.com/google/uuid"
)

// SMTPSettings is the per-tenant outbound mail configuration. At most one
// row exists per tenant; a new POST supersedes (deletes) the previous row.
// The transport itself lives outside this service.
type SMTPSettings struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Host      string    `db:"host"       json:"host"`
	Port      int       `db:"port"       json:"port"`
	Username  string    `db:"username"   json:"username"`
	Password  string    `db:"password"   json:"password"`
	FromEmail string    `db:"from_email" json:"from_email"`
	FromName  string    `db:"from_name"  json:"from_name"`
	Secure    bool      `db:"secure"     json:"secure"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// BrandingSettings is the per-tenant singleton for display branding. Logo and
// favicon values are relative URL paths produced by the upload service.
type BrandingSettings struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	SiteName       string    `db:"site_name"       json:"site_name"`
	LogoURL        string    `db:"logo_url"        json:"logo_url"`
	FaviconURL     string    `db:"favicon_url"     json:"favicon_url"`
	PrimaryColor   string    `db:"primary_color"   json:"primary_color"`
	SecondaryColor string    `db:"secondary_color" json:"secondary_color"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// FreeTrialSettings is the per-tenant singleton free-trial policy.
type FreeTrialSettings struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Days      int       `db:"days"       json:"days"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
