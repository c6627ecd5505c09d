package handler

import (
	"net/http"

	"github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

type adminResponse struct {
	Admin        *models.OrganizationAdmin  `json:"admin"`
	Organization models.OrganizationSummary `json:"organization"`
}

// NewGetOrganizationAdminHandler returns the handler for
// GET /api/superadmin/organizationadmin/{organizationId}. The tenant copy is
// authoritative for reads on this route; the credential hash never leaves
// the server.
func NewGetOrganizationAdminHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := middleware.GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}

		ts, err := tenants.TenantStore(r.Context(), org)
		if err != nil {
			writeStoreError(w, err, "Organization not found")
			return
		}

		admin, err := ts.GetAdmin(r.Context())
		if err != nil {
			writeStoreError(w, err, "Organization admin not found")
			return
		}

		response.JSON(w, adminResponse{Admin: admin, Organization: org.Summary()})
	}
}

// NewUpdateOrganizationAdminHandler returns the handler for
// PUT /api/superadmin/organizationadmin/{organizationId}. Absent fields are
// left untouched; a password change needs the current password and re-hashes
// with bcrypt. The update lands in the tenant database and the directory via
// the dual writer.
func NewUpdateOrganizationAdminHandler(updater AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := middleware.GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}

		var req struct {
			Name            *string `json:"name"`
			Email           *string `json:"email"`
			Phone           *string `json:"phone"`
			TaxID           *string `json:"tax_id"`
			Address         *string `json:"address"`
			City            *string `json:"city"`
			State           *string `json:"state"`
			PostalCode      *string `json:"postal_code"`
			Country         *string `json:"country"`
			CurrentPassword *string `json:"current_password"`
			NewPassword     *string `json:"new_password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		admin, err := updater.UpdateAdmin(r.Context(), org, store.AdminUpdate{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			TaxID:           req.TaxID,
			Address:         req.Address,
			City:            req.City,
			State:           req.State,
			PostalCode:      req.PostalCode,
			Country:         req.Country,
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
		})
		if err != nil {
			writeStoreError(w, err, "Organization admin not found")
			return
		}

		response.JSON(w, adminResponse{Admin: admin, Organization: org.Summary()})
	}
}
