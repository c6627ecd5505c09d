package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// NewGetBrandingHandler returns the handler for
// GET /api/superadmin/organization/{organizationId}/branding.
func NewGetBrandingHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}
		branding, err := ts.GetBranding(r.Context())
		if err != nil {
			writeStoreError(w, err, "Branding not configured")
			return
		}
		response.JSON(w, branding)
	}
}

// NewSaveBrandingHandler returns the handler for
// POST /api/superadmin/organization/{organizationId}/branding. Logo and
// favicon values are relative URL paths issued by the upload service.
func NewSaveBrandingHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		var req struct {
			SiteName       string `json:"site_name"`
			LogoURL        string `json:"logo_url"`
			FaviconURL     string `json:"favicon_url"`
			PrimaryColor   string `json:"primary_color"`
			SecondaryColor string `json:"secondary_color"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.SiteName == "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "site_name is required")
			return
		}

		now := time.Now().UTC()
		saved, err := ts.ReplaceBranding(r.Context(), &models.BrandingSettings{
			ID:             uuid.New(),
			SiteName:       req.SiteName,
			LogoURL:        req.LogoURL,
			FaviconURL:     req.FaviconURL,
			PrimaryColor:   req.PrimaryColor,
			SecondaryColor: req.SecondaryColor,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			writeStoreError(w, err, "Branding not configured")
			return
		}
		response.Created(w, saved, "Branding saved")
	}
}

// NewUpdateBrandingHandler returns the handler for
// PUT /api/superadmin/organization/{organizationId}/branding.
func NewUpdateBrandingHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		var req struct {
			SiteName       *string `json:"site_name"`
			LogoURL        *string `json:"logo_url"`
			FaviconURL     *string `json:"favicon_url"`
			PrimaryColor   *string `json:"primary_color"`
			SecondaryColor *string `json:"secondary_color"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		set := store.NewUpdateSet().
			SetString("site_name", req.SiteName).
			SetString("logo_url", req.LogoURL).
			SetString("favicon_url", req.FaviconURL).
			SetString("primary_color", req.PrimaryColor).
			SetString("secondary_color", req.SecondaryColor)
		if set.Empty() {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "No updatable fields in request")
			return
		}

		updated, err := ts.UpdateBranding(r.Context(), set)
		if err != nil {
			writeStoreError(w, err, "Branding not configured")
			return
		}
		response.JSON(w, updated)
	}
}
