package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// --- fixtures ---

var errConnRefused = errors.New("dial tcp: connection refused")

func testOrg() *models.Organization {
	return &models.Organization{
		ID:             uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
		Name:           "Acme Traders",
		Slug:           "acme-traders",
		OrganizationDB: "org_acme_traders_ab12",
		Plan:           models.PlanStandard,
		Status:         models.StatusActive,
	}
}

func testAdmin() *models.OrganizationAdmin {
	return &models.OrganizationAdmin{
		ID:             uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"),
		OrganizationID: testOrg().ID,
		Name:           "Asha",
		Email:          "asha@acme.example",
		Phone:          "9876543210",
		Role:           models.RoleAdmin,
		IsActive:       true,
	}
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

// --- mock tenant store ---

type mockTenant struct {
	admin    *models.OrganizationAdmin
	adminErr error

	smtp       *models.SMTPSettings
	smtpErr    error
	branding   *models.BrandingSettings
	brandErr   error
	trial      *models.FreeTrialSettings
	trialErr   error
	invoice    *models.InvoiceSettings
	invoiceErr error

	replaceErr error

	nextSeq    int64
	nextSeqErr error

	lastReplacedSMTP *models.SMTPSettings
	lastSMTPSet      *store.UpdateSet
	lastBrandingSet  *store.UpdateSet
}

func (m *mockTenant) GetAdmin(_ context.Context) (*models.OrganizationAdmin, error) {
	return m.admin, m.adminErr
}

func (m *mockTenant) GetSMTPSettings(_ context.Context) (*models.SMTPSettings, error) {
	return m.smtp, m.smtpErr
}
func (m *mockTenant) ReplaceSMTPSettings(_ context.Context, s *models.SMTPSettings) (*models.SMTPSettings, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	m.lastReplacedSMTP = s
	return s, nil
}
func (m *mockTenant) UpdateSMTPSettings(_ context.Context, set *store.UpdateSet) (*models.SMTPSettings, error) {
	m.lastSMTPSet = set
	return m.smtp, m.smtpErr
}

func (m *mockTenant) GetBranding(_ context.Context) (*models.BrandingSettings, error) {
	return m.branding, m.brandErr
}
func (m *mockTenant) ReplaceBranding(_ context.Context, b *models.BrandingSettings) (*models.BrandingSettings, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	return b, nil
}
func (m *mockTenant) UpdateBranding(_ context.Context, set *store.UpdateSet) (*models.BrandingSettings, error) {
	m.lastBrandingSet = set
	return m.branding, m.brandErr
}

func (m *mockTenant) GetFreeTrial(_ context.Context) (*models.FreeTrialSettings, error) {
	return m.trial, m.trialErr
}
func (m *mockTenant) ReplaceFreeTrial(_ context.Context, f *models.FreeTrialSettings) (*models.FreeTrialSettings, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	return f, nil
}

func (m *mockTenant) GetInvoiceSettings(_ context.Context) (*models.InvoiceSettings, error) {
	return m.invoice, m.invoiceErr
}
func (m *mockTenant) ReplaceInvoiceSettings(_ context.Context, s *models.InvoiceSettings) (*models.InvoiceSettings, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	return s, nil
}
func (m *mockTenant) NextInvoiceNumber(_ context.Context, _, _ string) (int64, error) {
	return m.nextSeq, m.nextSeqErr
}

var _ store.Tenant = (*mockTenant)(nil)

// mockTenants resolves every organization to the same tenant store.
type mockTenants struct {
	tenant store.Tenant
	err    error
}

func (m *mockTenants) TenantStore(_ context.Context, _ *models.Organization) (store.Tenant, error) {
	return m.tenant, m.err
}

// --- mock admin updater ---

type mockUpdater struct {
	updateFn func(org *models.Organization, upd store.AdminUpdate) (*models.OrganizationAdmin, error)
	resetFn  func(org *models.Organization, adminID uuid.UUID, newPassword string) error
}

func (m *mockUpdater) UpdateAdmin(_ context.Context, org *models.Organization, upd store.AdminUpdate) (*models.OrganizationAdmin, error) {
	return m.updateFn(org, upd)
}

func (m *mockUpdater) ResetAdminPassword(_ context.Context, org *models.Organization, adminID uuid.UUID, newPassword string) error {
	return m.resetFn(org, adminID, newPassword)
}

// --- mock token issuer ---

type mockIssuer struct {
	token string
	err   error
}

func (m *mockIssuer) Issue(_ uuid.UUID, _ string, _ *uuid.UUID) (string, error) {
	return m.token, m.err
}

// --- mock directory (auth, plans, payment gateway handlers) ---

type mockDirectory struct {
	superadmin *models.Superadmin
	admin      *models.OrganizationAdmin
	org        *models.Organization

	plans       []*models.SubscriptionPlan
	createdPlan *models.SubscriptionPlan
	planErr     error

	gateway      *models.PaymentGatewaySettings
	savedGateway *models.PaymentGatewaySettings

	orgs       []*models.Organization
	orgsTotal  int
	orgsErr    error
	lastFilter store.OrganizationFilter

	updatedOrg *models.Organization
	lastOrgSet *store.UpdateSet

	statusErr  error
	lastStatus string

	adminResetToken      string
	superadminResetToken string
	resetPasswordHash    string
}

func (m *mockDirectory) Ping(_ context.Context) error { return nil }

func (m *mockDirectory) CreateOrganization(_ context.Context, _ *models.Organization) error {
	return nil
}
func (m *mockDirectory) GetOrganization(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	if m.org != nil && m.org.ID == id {
		return m.org, nil
	}
	return nil, store.ErrNotFound
}
func (m *mockDirectory) ListOrganizations(_ context.Context, filter store.OrganizationFilter) ([]*models.Organization, int, error) {
	m.lastFilter = filter
	return m.orgs, m.orgsTotal, m.orgsErr
}
func (m *mockDirectory) UpdateOrganization(_ context.Context, _ uuid.UUID, set *store.UpdateSet) (*models.Organization, error) {
	m.lastOrgSet = set
	if m.updatedOrg == nil {
		return nil, store.ErrNotFound
	}
	return m.updatedOrg, nil
}
func (m *mockDirectory) SetOrganizationStatus(_ context.Context, _ uuid.UUID, status string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.lastStatus = status
	return nil
}
func (m *mockDirectory) CreateOrganizationAdmin(_ context.Context, _ *models.OrganizationAdmin) error {
	return nil
}
func (m *mockDirectory) GetOrganizationAdmin(_ context.Context, _ uuid.UUID) (*models.OrganizationAdmin, error) {
	if m.admin == nil {
		return nil, store.ErrNotFound
	}
	return m.admin, nil
}
func (m *mockDirectory) GetAdminByID(_ context.Context, _ uuid.UUID) (*models.OrganizationAdmin, error) {
	if m.admin == nil {
		return nil, store.ErrNotFound
	}
	return m.admin, nil
}
func (m *mockDirectory) GetAdminByEmail(_ context.Context, email string) (*models.OrganizationAdmin, error) {
	if m.admin != nil && m.admin.Email == email {
		return m.admin, nil
	}
	return nil, store.ErrNotFound
}
func (m *mockDirectory) GetAdminByResetToken(_ context.Context, token string) (*models.OrganizationAdmin, error) {
	if m.admin != nil && m.adminResetToken == token && token != "" {
		return m.admin, nil
	}
	return nil, store.ErrNotFound
}
func (m *mockDirectory) SetAdminResetToken(_ context.Context, _ uuid.UUID, token string, _ time.Time) error {
	m.adminResetToken = token
	return nil
}
func (m *mockDirectory) TouchAdminLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockDirectory) EnsureSuperadmin(_ context.Context, _, _, _ string) error { return nil }
func (m *mockDirectory) GetSuperadminByEmail(_ context.Context, email string) (*models.Superadmin, error) {
	if m.superadmin != nil && m.superadmin.Email == email {
		return m.superadmin, nil
	}
	return nil, store.ErrNotFound
}
func (m *mockDirectory) GetSuperadminByID(_ context.Context, _ uuid.UUID) (*models.Superadmin, error) {
	if m.superadmin == nil {
		return nil, store.ErrNotFound
	}
	return m.superadmin, nil
}
func (m *mockDirectory) GetSuperadminByResetToken(_ context.Context, token string) (*models.Superadmin, error) {
	if m.superadmin != nil && m.superadminResetToken == token && token != "" {
		return m.superadmin, nil
	}
	return nil, store.ErrNotFound
}
func (m *mockDirectory) SetSuperadminResetToken(_ context.Context, _ uuid.UUID, token string, _ time.Time) error {
	m.superadminResetToken = token
	return nil
}
func (m *mockDirectory) UpdateSuperadminPassword(_ context.Context, _ uuid.UUID, hash string) error {
	m.resetPasswordHash = hash
	return nil
}
func (m *mockDirectory) TouchSuperadminLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockDirectory) ListPlans(_ context.Context) ([]*models.SubscriptionPlan, error) {
	return m.plans, m.planErr
}
func (m *mockDirectory) CreatePlan(_ context.Context, plan *models.SubscriptionPlan) error {
	if m.planErr != nil {
		return m.planErr
	}
	m.createdPlan = plan
	return nil
}
func (m *mockDirectory) UpdatePlan(_ context.Context, _ uuid.UUID, _ *store.UpdateSet) (*models.SubscriptionPlan, error) {
	if m.planErr != nil {
		return nil, m.planErr
	}
	if len(m.plans) == 0 {
		return nil, store.ErrNotFound
	}
	return m.plans[0], nil
}
func (m *mockDirectory) DeletePlan(_ context.Context, _ uuid.UUID) error { return m.planErr }

func (m *mockDirectory) GetPaymentGateway(_ context.Context) (*models.PaymentGatewaySettings, error) {
	if m.gateway == nil {
		return nil, store.ErrNotFound
	}
	return m.gateway, nil
}
func (m *mockDirectory) SavePaymentGateway(_ context.Context, settings *models.PaymentGatewaySettings) error {
	m.savedGateway = settings
	return nil
}

var _ store.Directory = (*mockDirectory)(nil)

// --- request/response helpers ---

func jsonReq(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func withOrg(r *http.Request, org *models.Organization) *http.Request {
	return r.WithContext(mw.SetOrganization(r.Context(), org))
}

// planRequest injects the planId route parameter the way chi's mux would.
func planRequest(r *http.Request, planID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("planId", planID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func parseOK(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) map[string]any {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("expected %d, got %d: %s", wantStatus, rec.Code, rec.Body.String())
	}
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	return env.Data
}

func parseErr(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success {
		t.Fatalf("expected error envelope, got success")
	}
	return rec.Code, env.Error
}
