package handler

import (
	"net/http"
	"strconv"

	"github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// NewCreateOrganizationHandler returns the handler for
// POST /api/superadmin/organization. Provisioning creates the directory row,
// the tenant database, and the admin record in both stores.
func NewCreateOrganizationHandler(provisioner OrganizationProvisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name          string   `json:"name"`
			Slug          string   `json:"slug"`
			Plan          string   `json:"plan"`
			UserLimit     int      `json:"user_limit"`
			Modules       []string `json:"modules"`
			AdminName     string   `json:"admin_name"`
			AdminEmail    string   `json:"admin_email"`
			AdminPhone    string   `json:"admin_phone"`
			AdminPassword string   `json:"admin_password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		org, admin, err := provisioner.CreateOrganization(r.Context(), store.CreateOrganizationParams{
			Name:          req.Name,
			Slug:          req.Slug,
			Plan:          req.Plan,
			UserLimit:     req.UserLimit,
			Modules:       req.Modules,
			AdminName:     req.AdminName,
			AdminEmail:    req.AdminEmail,
			AdminPhone:    req.AdminPhone,
			AdminPassword: req.AdminPassword,
		})
		if err != nil {
			writeStoreError(w, err, "Organization not found")
			return
		}

		response.Created(w, map[string]any{
			"organization": org,
			"admin":        admin,
		}, "Organization created")
	}
}

// NewListOrganizationsHandler returns the handler for GET /api/superadmin/organization.
func NewListOrganizationsHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		status := q.Get("status")
		if status != "" && !models.ValidStatus(status) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Unknown status filter")
			return
		}
		plan := q.Get("plan")
		if plan != "" && !models.ValidPlan(plan) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Unknown plan filter")
			return
		}

		filter := store.OrganizationFilter{
			Status: status,
			Plan:   plan,
			Page:   intQuery(q.Get("page"), 1),
			Limit:  intQuery(q.Get("limit"), 20),
		}

		orgs, total, err := dir.ListOrganizations(r.Context(), filter)
		if err != nil {
			writeStoreError(w, err, "Organization not found")
			return
		}
		if orgs == nil {
			orgs = []*models.Organization{}
		}

		page := filter.Page
		limit := filter.Limit
		response.Collection(w, orgs, response.Meta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}

// NewGetOrganizationHandler returns the handler for
// GET /api/superadmin/organization/{organizationId}. The row was already
// resolved by the authorization chain.
func NewGetOrganizationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := middleware.GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}
		response.JSON(w, org)
	}
}

// NewUpdateOrganizationHandler returns the handler for
// PUT /api/superadmin/organization/{organizationId}. The organization_db
// routing key is not updatable.
func NewUpdateOrganizationHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := middleware.GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}

		var req struct {
			Name       *string   `json:"name"`
			AdminEmail *string   `json:"admin_email"`
			AdminPhone *string   `json:"admin_phone"`
			Plan       *string   `json:"plan"`
			UserLimit  *int      `json:"user_limit"`
			Modules    *[]string `json:"modules"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		if req.Plan != nil && !models.ValidPlan(*req.Plan) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Plan must be one of basic, standard, premium")
			return
		}
		if req.UserLimit != nil && *req.UserLimit <= 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "User limit must be positive")
			return
		}

		set := store.NewUpdateSet().
			SetString("name", req.Name).
			SetString("admin_email", req.AdminEmail).
			SetString("admin_phone", req.AdminPhone).
			SetString("plan", req.Plan).
			SetInt("user_limit", req.UserLimit)
		if req.Modules != nil {
			set.Set("enabled_modules", *req.Modules)
		}

		if set.Empty() {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "No updatable fields in request")
			return
		}

		updated, err := dir.UpdateOrganization(r.Context(), org.ID, set)
		if err != nil {
			writeStoreError(w, err, "Organization not found")
			return
		}
		response.JSON(w, updated)
	}
}

// NewSetOrganizationStatusHandler returns the handler for
// PATCH /api/superadmin/organization/{organizationId}/status. Mounted
// without the tenant-active gate so a suspended organization can be
// reactivated.
func NewSetOrganizationStatusHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, ok := middleware.GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if !models.ValidStatus(req.Status) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status")
			return
		}

		if err := dir.SetOrganizationStatus(r.Context(), org.ID, req.Status); err != nil {
			writeStoreError(w, err, "Organization not found")
			return
		}
		response.Message(w, "Organization status updated")
	}
}

func intQuery(raw string, defaultVal int) int {
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
