package middleware

import (
	"context"
	"net/http"

	"github.com/manoj8056887579/Accounting1-sub001/internal/auth"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

type contextKey string

const (
	identityKey     contextKey = "identity"
	organizationKey contextKey = "organization"
	requestMetaKey  contextKey = "request_meta"
)

func withRequestMeta(ctx context.Context, m *requestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, m)
}

// SetIdentity attaches the verified identity, and mirrors it into the access
// log holder when one is present.
func SetIdentity(ctx context.Context, id *auth.Identity) context.Context {
	if m, ok := ctx.Value(requestMetaKey).(*requestMeta); ok {
		m.role = id.Role
		m.userID = id.UserID.String()
	}
	return context.WithValue(ctx, identityKey, id)
}

func GetIdentity(r *http.Request) (*auth.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(*auth.Identity)
	return id, ok
}

// SetOrganization caches the resolved directory row on the request context so
// the gates and the handler share one lookup.
func SetOrganization(ctx context.Context, org *models.Organization) context.Context {
	if m, ok := ctx.Value(requestMetaKey).(*requestMeta); ok {
		m.organizationID = org.ID.String()
	}
	return context.WithValue(ctx, organizationKey, org)
}

func GetOrganization(r *http.Request) (*models.Organization, bool) {
	org, ok := r.Context().Value(organizationKey).(*models.Organization)
	return org, ok
}
