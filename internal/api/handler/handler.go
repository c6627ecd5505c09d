// Package handler contains the per-feature HTTP controllers. Each handler is
// constructed over the narrow interface it needs, so tests mock only that.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// TenantStores resolves an organization's own database into a feature store.
// *store.Registry is the production implementation.
type TenantStores interface {
	TenantStore(ctx context.Context, org *models.Organization) (store.Tenant, error)
}

// AdminUpdater applies admin-record mutations to both stores.
// *store.DualWriter is the production implementation.
type AdminUpdater interface {
	UpdateAdmin(ctx context.Context, org *models.Organization, upd store.AdminUpdate) (*models.OrganizationAdmin, error)
	ResetAdminPassword(ctx context.Context, org *models.Organization, adminID uuid.UUID, newPassword string) error
}

// OrganizationProvisioner creates a tenant end to end.
// *store.Provisioner is the production implementation.
type OrganizationProvisioner interface {
	CreateOrganization(ctx context.Context, params store.CreateOrganizationParams) (*models.Organization, *models.OrganizationAdmin, error)
}

// TokenIssuer signs bearer credentials. *auth.Tokens is the production
// implementation.
type TokenIssuer interface {
	Issue(userID uuid.UUID, role string, organizationID *uuid.UUID) (string, error)
}

// writeStoreError maps store-layer failures onto the response envelope.
// notFoundMsg names the missing resource for 404s.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", ve.Msg)
	case errors.Is(err, store.ErrCurrentPassword):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Current password is incorrect")
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", notFoundMsg)
	case errors.Is(err, store.ErrDuplicate):
		response.Error(w, http.StatusConflict, "DUPLICATE", "A record with the same unique value already exists")
	default:
		// Includes connection failures and partial dual writes; detail goes
		// to the log, not the client.
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// decodeBody parses a JSON request body into dst, rejecting malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body")
		return false
	}
	return true
}
