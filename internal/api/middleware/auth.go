package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/auth"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// TokenVerifier decodes a raw bearer token into an identity.
type TokenVerifier interface {
	Verify(raw string) (*auth.Identity, error)
}

// Auth is the request authorization chain: a sequence of gates that each
// either pass the request on or terminate it. Every gate fails closed — a
// directory error during a check is a 500, never a pass.
type Auth struct {
	tokens    TokenVerifier
	directory store.Directory
}

// NewAuth creates the authorization chain over the given verifier and
// directory.
func NewAuth(tokens TokenVerifier, directory store.Directory) *Auth {
	return &Auth{tokens: tokens, directory: directory}
}

// Authenticate extracts and verifies the bearer credential and attaches the
// decoded identity to the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearerToken(r)
		if raw == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header")
			return
		}

		identity, err := a.tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				response.Error(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), identity)))
	})
}

// RequireRole passes only identities whose role is in the allow-list.
func (a *Auth) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity")
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, http.StatusForbidden, "FORBIDDEN", "Insufficient role")
		})
	}
}

// ResolveOrganization translates the organizationId path parameter into a
// directory row and caches it on the request context. This is the only place
// a tenant identifier becomes an organization_db routing key.
func (a *Auth) ResolveOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "organizationId")
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "organizationId must be a valid UUID")
			return
		}

		org, err := a.directory.GetOrganization(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Organization not found")
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve organization")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetOrganization(r.Context(), org)))
	})
}

// RequireTenantAccess rejects callers acting on an organization they do not
// own. Superadmins bypass this gate entirely; an admin must have a directory
// row whose id matches the identity and whose organization matches the
// requested tenant.
func (a *Auth) RequireTenantAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity")
			return
		}
		if identity.Role == models.RoleSuperadmin {
			next.ServeHTTP(w, r)
			return
		}

		org, ok := GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}

		admin, err := a.directory.GetAdminByID(r.Context(), identity.UserID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusForbidden, "FORBIDDEN", "No access to this organization")
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify tenant access")
			return
		}
		if admin.OrganizationID != org.ID {
			response.Error(w, http.StatusForbidden, "FORBIDDEN", "No access to this organization")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTenantActive rejects requests against organizations that are not
// active. Unlike RequireTenantAccess, superadmins get no exemption here.
func (a *Auth) RequireTenantActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		org, ok := GetOrganization(r)
		if !ok {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Organization not resolved")
			return
		}
		if org.Status != models.StatusActive {
			response.Error(w, http.StatusForbidden, "ORGANIZATION_INACTIVE", "Organization is not active")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAccountActive verifies the caller's own account-active flag against
// the superadmin or organization-admin table depending on role.
func (a *Auth) RequireAccountActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing identity")
			return
		}

		var active bool
		var err error
		switch identity.Role {
		case models.RoleSuperadmin:
			var sa *models.Superadmin
			sa, err = a.directory.GetSuperadminByID(r.Context(), identity.UserID)
			if err == nil {
				active = sa.IsActive
			}
		default:
			var admin *models.OrganizationAdmin
			admin, err = a.directory.GetAdminByID(r.Context(), identity.UserID)
			if err == nil {
				active = admin.IsActive
			}
		}

		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account not found or inactive")
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify account")
			return
		}
		if !active {
			response.Error(w, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is deactivated")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
