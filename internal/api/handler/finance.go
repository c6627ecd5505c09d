package handler

import (
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

var (
	invoicePrefixPattern = regexp.MustCompile(`^[A-Z]{2,8}$`)
	financialYearPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)
)

// NewGetInvoiceSettingsHandler returns the handler for
// GET /api/superadmin/finance/{organizationId}.
func NewGetInvoiceSettingsHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}
		settings, err := ts.GetInvoiceSettings(r.Context())
		if err != nil {
			writeStoreError(w, err, "Invoice settings not configured")
			return
		}
		response.JSON(w, settings)
	}
}

// NewSaveInvoiceSettingsHandler returns the handler for
// POST /api/superadmin/finance/{organizationId}. Counters already allocated
// under previous settings are kept: numbering restarts only for a
// (financial year, prefix) pair never seen before.
func NewSaveInvoiceSettingsHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		var req struct {
			Prefix        string `json:"prefix"`
			FinancialYear string `json:"financial_year"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if !invoicePrefixPattern.MatchString(req.Prefix) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "prefix must be 2-8 uppercase letters")
			return
		}
		if !financialYearPattern.MatchString(req.FinancialYear) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "financial_year must look like 2025-26")
			return
		}

		now := time.Now().UTC()
		saved, err := ts.ReplaceInvoiceSettings(r.Context(), &models.InvoiceSettings{
			ID:            uuid.New(),
			Prefix:        req.Prefix,
			FinancialYear: req.FinancialYear,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			writeStoreError(w, err, "Invoice settings not configured")
			return
		}
		response.Created(w, saved, "Invoice settings saved")
	}
}

// NewAllocateInvoiceNumberHandler returns the handler for
// POST /api/superadmin/finance/{organizationId}/allocate. The increment runs
// inside the database, so concurrent callers always receive distinct numbers.
func NewAllocateInvoiceNumberHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		settings, err := ts.GetInvoiceSettings(r.Context())
		if err != nil {
			writeStoreError(w, err, "Invoice settings not configured")
			return
		}

		seq, err := ts.NextInvoiceNumber(r.Context(), settings.FinancialYear, settings.Prefix)
		if err != nil {
			writeStoreError(w, err, "Invoice settings not configured")
			return
		}

		response.JSON(w, models.InvoiceNumber{
			Prefix:        settings.Prefix,
			FinancialYear: settings.FinancialYear,
			Sequence:      seq,
			Formatted:     models.FormatInvoiceNumber(settings.Prefix, settings.FinancialYear, seq),
		})
	}
}
