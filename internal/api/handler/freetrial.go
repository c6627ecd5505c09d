package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// NewGetFreeTrialHandler returns the handler for
// GET /api/superadmin/freetrial/{organizationId}.
func NewGetFreeTrialHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}
		trial, err := ts.GetFreeTrial(r.Context())
		if err != nil {
			writeStoreError(w, err, "Free trial not configured")
			return
		}
		response.JSON(w, trial)
	}
}

// NewSaveFreeTrialHandler returns the handler for
// POST /api/superadmin/freetrial/{organizationId}. Supersedes any prior
// policy row.
func NewSaveFreeTrialHandler(tenants TenantStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, ok := tenantStore(w, r, tenants)
		if !ok {
			return
		}

		var req struct {
			Days int `json:"days"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Days < 1 || req.Days > 365 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "days must be between 1 and 365")
			return
		}

		now := time.Now().UTC()
		saved, err := ts.ReplaceFreeTrial(r.Context(), &models.FreeTrialSettings{
			ID:        uuid.New(),
			Days:      req.Days,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			writeStoreError(w, err, "Free trial not configured")
			return
		}
		response.Created(w, saved, "Free trial policy saved")
	}
}
