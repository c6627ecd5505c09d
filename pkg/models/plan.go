package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPlan is a platform-global plan definition in the directory.
// Price is stored in the smallest currency unit.
type SubscriptionPlan struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Price     int64     `db:"price"      json:"price"`
	Currency  string    `db:"currency"   json:"currency"`
	UserLimit int       `db:"user_limit" json:"user_limit"`
	Modules   []string  `db:"modules"    json:"modules"`
	IsActive  bool      `db:"is_active"  json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
