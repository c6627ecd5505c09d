package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentGatewaySettings is the platform-global singleton for the payment
// gateway integration. The key secret is write-only over the API.
type PaymentGatewaySettings struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Provider  string    `db:"provider"   json:"provider"`
	KeyID     string    `db:"key_id"     json:"key_id"`
	KeySecret string    `db:"key_secret" json:"-"`
	Enabled   bool      `db:"enabled"    json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
