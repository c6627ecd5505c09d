package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/auth"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Directory ---

type mockDirectory struct {
	org    *models.Organization
	orgErr error

	admin    *models.OrganizationAdmin
	adminErr error

	superadmin    *models.Superadmin
	superadminErr error
}

func (m *mockDirectory) Ping(_ context.Context) error { return nil }

func (m *mockDirectory) CreateOrganization(_ context.Context, _ *models.Organization) error {
	return nil
}
func (m *mockDirectory) GetOrganization(_ context.Context, _ uuid.UUID) (*models.Organization, error) {
	return m.org, m.orgErr
}
func (m *mockDirectory) ListOrganizations(_ context.Context, _ store.OrganizationFilter) ([]*models.Organization, int, error) {
	return nil, 0, nil
}
func (m *mockDirectory) UpdateOrganization(_ context.Context, _ uuid.UUID, _ *store.UpdateSet) (*models.Organization, error) {
	return nil, store.ErrNotFound
}
func (m *mockDirectory) SetOrganizationStatus(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (m *mockDirectory) CreateOrganizationAdmin(_ context.Context, _ *models.OrganizationAdmin) error {
	return nil
}
func (m *mockDirectory) GetOrganizationAdmin(_ context.Context, _ uuid.UUID) (*models.OrganizationAdmin, error) {
	return m.admin, m.adminErr
}
func (m *mockDirectory) GetAdminByID(_ context.Context, _ uuid.UUID) (*models.OrganizationAdmin, error) {
	return m.admin, m.adminErr
}
func (m *mockDirectory) GetAdminByEmail(_ context.Context, _ string) (*models.OrganizationAdmin, error) {
	return m.admin, m.adminErr
}
func (m *mockDirectory) GetAdminByResetToken(_ context.Context, _ string) (*models.OrganizationAdmin, error) {
	return nil, store.ErrNotFound
}
func (m *mockDirectory) SetAdminResetToken(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}
func (m *mockDirectory) TouchAdminLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockDirectory) EnsureSuperadmin(_ context.Context, _, _, _ string) error { return nil }
func (m *mockDirectory) GetSuperadminByEmail(_ context.Context, _ string) (*models.Superadmin, error) {
	return m.superadmin, m.superadminErr
}
func (m *mockDirectory) GetSuperadminByID(_ context.Context, _ uuid.UUID) (*models.Superadmin, error) {
	return m.superadmin, m.superadminErr
}
func (m *mockDirectory) GetSuperadminByResetToken(_ context.Context, _ string) (*models.Superadmin, error) {
	return nil, store.ErrNotFound
}
func (m *mockDirectory) SetSuperadminResetToken(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}
func (m *mockDirectory) UpdateSuperadminPassword(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (m *mockDirectory) TouchSuperadminLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockDirectory) ListPlans(_ context.Context) ([]*models.SubscriptionPlan, error) {
	return nil, nil
}
func (m *mockDirectory) CreatePlan(_ context.Context, _ *models.SubscriptionPlan) error { return nil }
func (m *mockDirectory) UpdatePlan(_ context.Context, _ uuid.UUID, _ *store.UpdateSet) (*models.SubscriptionPlan, error) {
	return nil, store.ErrNotFound
}
func (m *mockDirectory) DeletePlan(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockDirectory) GetPaymentGateway(_ context.Context) (*models.PaymentGatewaySettings, error) {
	return nil, store.ErrNotFound
}
func (m *mockDirectory) SavePaymentGateway(_ context.Context, _ *models.PaymentGatewaySettings) error {
	return nil
}

// --- Mock token verifier ---

type mockVerifier struct {
	identity *auth.Identity
	err      error
}

func (m *mockVerifier) Verify(_ string) (*auth.Identity, error) {
	return m.identity, m.err
}

// --- Mock Cache ---

type mockCache struct {
	counter int64
	err     error
}

func (m *mockCache) Ping(_ context.Context) error { return nil }
func (m *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	m.counter++
	return m.counter, m.err
}

// --- helpers ---

func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func withIdentity(req *http.Request, id *auth.Identity) *http.Request {
	return req.WithContext(mw.SetIdentity(req.Context(), id))
}

func withOrganization(req *http.Request, org *models.Organization) *http.Request {
	return req.WithContext(mw.SetOrganization(req.Context(), org))
}

func adminIdentity(orgID uuid.UUID) *auth.Identity {
	return &auth.Identity{UserID: uuid.New(), Role: models.RoleAdmin, OrganizationID: &orgID}
}

func superadminIdentity() *auth.Identity {
	return &auth.Identity{UserID: uuid.New(), Role: models.RoleSuperadmin}
}

func activeOrg() *models.Organization {
	return &models.Organization{ID: uuid.New(), Name: "Acme", Status: models.StatusActive}
}

// ========================================
// Authenticate Tests
// ========================================

func TestAuthenticate_MissingHeader(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errCode(t, w))
}

func TestAuthenticate_WrongScheme(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{err: auth.ErrInvalidToken}, &mockDirectory{})
	handler := a.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errCode(t, w))
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{err: auth.ErrExpiredToken}, &mockDirectory{})
	handler := a.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", errCode(t, w))
}

func TestAuthenticate_ValidToken(t *testing.T) {
	identity := superadminIdentity()
	a := mw.NewAuth(&mockVerifier{identity: identity}, &mockDirectory{})

	var got *auth.Identity
	var ok bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = mw.GetIdentity(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := a.Authenticate(inner)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, ok)
	assert.Equal(t, identity.UserID, got.UserID)
}

// ========================================
// RequireRole Tests
// ========================================

func TestRequireRole_Allowed(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.RequireRole(models.RoleSuperadmin)(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Denied(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.RequireRole(models.RoleSuperadmin)(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), adminIdentity(uuid.New()))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errCode(t, w))
}

func TestRequireRole_NoIdentity(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.RequireRole(models.RoleAdmin)(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ========================================
// ResolveOrganization Tests
// ========================================

func resolveRequest(t *testing.T, orgID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/organizations/"+orgID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("organizationId", orgID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestResolveOrganization_BadUUID(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.ResolveOrganization(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, resolveRequest(t, "not-a-uuid"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errCode(t, w))
}

func TestResolveOrganization_NotFound(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{orgErr: store.ErrNotFound})
	handler := a.ResolveOrganization(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, resolveRequest(t, uuid.NewString()))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errCode(t, w))
}

func TestResolveOrganization_DirectoryError(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{orgErr: errors.New("connection refused")})
	handler := a.ResolveOrganization(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, resolveRequest(t, uuid.NewString()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResolveOrganization_AttachesOrg(t *testing.T) {
	org := activeOrg()
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{org: org})

	var got *models.Organization
	var ok bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = mw.GetOrganization(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := a.ResolveOrganization(inner)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, resolveRequest(t, org.ID.String()))

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, ok)
	assert.Equal(t, org.ID, got.ID)
}

// ========================================
// RequireTenantAccess Tests
// ========================================

func TestRequireTenantAccess_SuperadminBypass(t *testing.T) {
	// Superadmin needs no directory admin row; the lookup must not even run.
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{adminErr: errors.New("should not be called")})
	handler := a.RequireTenantAccess(okHandler())

	req := withOrganization(withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity()), activeOrg())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTenantAccess_OwnOrganization(t *testing.T) {
	org := activeOrg()
	identity := adminIdentity(org.ID)
	dir := &mockDirectory{admin: &models.OrganizationAdmin{
		ID:             identity.UserID,
		OrganizationID: org.ID,
		IsActive:       true,
	}}
	a := mw.NewAuth(&mockVerifier{}, dir)
	handler := a.RequireTenantAccess(okHandler())

	req := withOrganization(withIdentity(httptest.NewRequest("GET", "/test", nil), identity), org)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTenantAccess_CrossTenantDenied(t *testing.T) {
	org := activeOrg()
	identity := adminIdentity(org.ID)
	// The admin's directory row points at a different organization.
	dir := &mockDirectory{admin: &models.OrganizationAdmin{
		ID:             identity.UserID,
		OrganizationID: uuid.New(),
		IsActive:       true,
	}}
	a := mw.NewAuth(&mockVerifier{}, dir)
	handler := a.RequireTenantAccess(okHandler())

	req := withOrganization(withIdentity(httptest.NewRequest("GET", "/test", nil), identity), org)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errCode(t, w))
}

func TestRequireTenantAccess_UnknownAdminDenied(t *testing.T) {
	org := activeOrg()
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{adminErr: store.ErrNotFound})
	handler := a.RequireTenantAccess(okHandler())

	req := withOrganization(withIdentity(httptest.NewRequest("GET", "/test", nil), adminIdentity(org.ID)), org)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireTenantAccess_DirectoryErrorFailsClosed(t *testing.T) {
	org := activeOrg()
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{adminErr: errors.New("connection reset")})
	handler := a.RequireTenantAccess(okHandler())

	req := withOrganization(withIdentity(httptest.NewRequest("GET", "/test", nil), adminIdentity(org.ID)), org)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ========================================
// RequireTenantActive Tests
// ========================================

func TestRequireTenantActive_Active(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.RequireTenantActive(okHandler())

	req := withOrganization(httptest.NewRequest("GET", "/test", nil), activeOrg())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireTenantActive_Suspended(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.RequireTenantActive(okHandler())

	org := activeOrg()
	org.Status = models.StatusSuspended
	req := withOrganization(httptest.NewRequest("GET", "/test", nil), org)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ORGANIZATION_INACTIVE", errCode(t, w))
}

func TestRequireTenantActive_NoSuperadminExemption(t *testing.T) {
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{})
	handler := a.RequireTenantActive(okHandler())

	org := activeOrg()
	org.Status = models.StatusSuspended
	req := withOrganization(withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity()), org)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ========================================
// RequireAccountActive Tests
// ========================================

func TestRequireAccountActive_ActiveAdmin(t *testing.T) {
	identity := adminIdentity(uuid.New())
	dir := &mockDirectory{admin: &models.OrganizationAdmin{ID: identity.UserID, IsActive: true}}
	a := mw.NewAuth(&mockVerifier{}, dir)
	handler := a.RequireAccountActive(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), identity)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccountActive_DeactivatedAdmin(t *testing.T) {
	identity := adminIdentity(uuid.New())
	dir := &mockDirectory{admin: &models.OrganizationAdmin{ID: identity.UserID, IsActive: false}}
	a := mw.NewAuth(&mockVerifier{}, dir)
	handler := a.RequireAccountActive(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), identity)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCOUNT_INACTIVE", errCode(t, w))
}

func TestRequireAccountActive_DeactivatedSuperadmin(t *testing.T) {
	dir := &mockDirectory{superadmin: &models.Superadmin{ID: uuid.New(), IsActive: false}}
	a := mw.NewAuth(&mockVerifier{}, dir)
	handler := a.RequireAccountActive(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAccountActive_LookupErrorFailsClosed(t *testing.T) {
	identity := adminIdentity(uuid.New())
	a := mw.NewAuth(&mockVerifier{}, &mockDirectory{adminErr: errors.New("timeout")})
	handler := a.RequireAccountActive(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), identity)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ========================================
// Rate Limit Middleware Tests
// ========================================

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	mc := &mockCache{counter: 0}
	rl := mw.NewRateLimit(mc, 60)
	handler := rl.Limit(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "59", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	mc := &mockCache{counter: 60} // next IncrWithExpiry will return 61
	rl := mw.NewRateLimit(mc, 60)
	handler := rl.Limit(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errCode(t, w))
}

func TestRateLimit_RedisErrorFailsOpen(t *testing.T) {
	mc := &mockCache{err: errors.New("redis down")}
	rl := mw.NewRateLimit(mc, 60)
	handler := rl.Limit(okHandler())

	req := withIdentity(httptest.NewRequest("GET", "/test", nil), superadminIdentity())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_NoIdentity_PassThrough(t *testing.T) {
	mc := &mockCache{}
	rl := mw.NewRateLimit(mc, 60)
	handler := rl.Limit(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ========================================
// Recovery Middleware Tests
// ========================================

func TestRecovery_CatchesPanic(t *testing.T) {
	panicking := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("something went wrong")
	})
	handler := mw.Recovery(panicking)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errCode(t, w))
}

func TestRecovery_NoPanic(t *testing.T) {
	handler := mw.Recovery(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ========================================
// Logging Middleware Tests
// ========================================

func TestLogger_SetsStatus(t *testing.T) {
	handler := mw.Logger(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// The access line carries the caller and tenant resolved by the gates, even
// though they attach to contexts derived below the logger.
func TestLogger_CarriesResolvedIdentityAndOrganization(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	org := activeOrg()
	identity := adminIdentity(org.ID)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = mw.SetOrganization(mw.SetIdentity(r.Context(), identity), org)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/superadmin/smtp/"+org.ID.String(), nil)
	w := httptest.NewRecorder()
	mw.Logger(inner).ServeHTTP(w, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, models.RoleAdmin, line["role"])
	assert.Equal(t, identity.UserID.String(), line["user_id"])
	assert.Equal(t, org.ID.String(), line["organization_id"])
}

func TestLogger_AnonymousRequestOmitsCallerAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	mw.Logger(okHandler()).ServeHTTP(w, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "role")
	assert.NotContains(t, line, "organization_id")
}
