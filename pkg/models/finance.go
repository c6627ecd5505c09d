package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvoiceSettings is the per-tenant singleton controlling invoice numbering.
type InvoiceSettings struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	Prefix        string    `db:"prefix"         json:"prefix"`
	FinancialYear string    `db:"financial_year" json:"financial_year"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// InvoiceNumber is an allocated invoice number. Sequence values are issued by
// an atomic database-side increment, so concurrent allocations never collide.
type InvoiceNumber struct {
	Prefix        string `json:"prefix"`
	FinancialYear string `json:"financial_year"`
	Sequence      int64  `json:"sequence"`
	Formatted     string `json:"formatted"`
}

// FormatInvoiceNumber renders the canonical PREFIX/FY/NNNNNN form.
func FormatInvoiceNumber(prefix, financialYear string, seq int64) string {
	return fmt.Sprintf("%s/%s/%06d", prefix, financialYear, seq)
}
