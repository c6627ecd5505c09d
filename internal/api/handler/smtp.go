package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// NewGetSMTPHandler returns the handler for GET /api/superadmin/smtp/{organizationId}.
func NewGetSMTPHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}
		settings, err := ts.GetSMTPSettings(r.Context())
		if err != nil {
			writeStoreError(w, err, "SMTP settings not configured")
			return
		}
		response.JSON(w, settings)
	}
}

// NewSaveSMTPHandler returns the handler for POST /api/superadmin/smtp/{organizationId}.
// The singleton lifecycle: prior rows are deleted, the new row inserted, and
// the stored values echoed back verbatim.
func NewSaveSMTPHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		var req struct {
			Host      string `json:"host"`
			Port      int    `json:"port"`
			Username  string `json:"username"`
			Password  string `json:"password"`
			FromEmail string `json:"from_email"`
			FromName  string `json:"from_name"`
			Secure    *bool  `json:"secure"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Host == "" || req.Username == "" || req.Password == "" || req.FromEmail == "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "host, username, password and from_email are required")
			return
		}
		if req.Port <= 0 || req.Port > 65535 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "port must be between 1 and 65535")
			return
		}

		secure := true
		if req.Secure != nil {
			secure = *req.Secure
		}

		now := time.Now().UTC()
		saved, err := ts.ReplaceSMTPSettings(r.Context(), &models.SMTPSettings{
			ID:        uuid.New(),
			Host:      req.Host,
			Port:      req.Port,
			Username:  req.Username,
			Password:  req.Password,
			FromEmail: req.FromEmail,
			FromName:  req.FromName,
			Secure:    secure,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			writeStoreError(w, err, "SMTP settings not configured")
			return
		}
		response.Created(w, saved, "SMTP settings saved")
	}
}

// NewUpdateSMTPHandler returns the handler for PUT /api/superadmin/smtp/{organizationId}.
// Sparse in-place update of the current row.
func NewUpdateSMTPHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		var req struct {
			Host      *string `json:"host"`
			Port      *int    `json:"port"`
			Username  *string `json:"username"`
			Password  *string `json:"password"`
			FromEmail *string `json:"from_email"`
			FromName  *string `json:"from_name"`
			Secure    *bool   `json:"secure"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Port != nil && (*req.Port <= 0 || *req.Port > 65535) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "port must be between 1 and 65535")
			return
		}

		set := store.NewUpdateSet().
			SetString("host", req.Host).
			SetInt("port", req.Port).
			SetString("username", req.Username).
			SetString("password", req.Password).
			SetString("from_email", req.FromEmail).
			SetString("from_name", req.FromName).
			SetBool("secure", req.Secure)
		if set.Empty() {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "No updatable fields in request")
			return
		}

		updated, err := ts.UpdateSMTPSettings(r.Context(), set)
		if err != nil {
			writeStoreError(w, err, "SMTP settings not configured")
			return
		}
		response.JSON(w, updated)
	}
}

// tenantStore resolves the request's organization into its tenant store,
// writing the error response itself on failure.
func tenantStore(w http.ResponseWriter, r *http.Request, tenants TenantStores) (store.Tenant, bool) {
	org, ok := middleware.GetOrganization(r)
	if !ok {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
		return nil, false
	}
	ts, err := tenants.TenantStore(r.Context(), org)
	if err != nil {
		writeStoreError(w, err, "Organization not found")
		return nil, false
	}
	return ts, true
}
