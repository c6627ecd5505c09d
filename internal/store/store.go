package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate key violation")

	// ErrPartialWrite means the tenant database committed an admin update but
	// the directory copy did not. The two stores have diverged; there is no
	// automated reconciliation.
	ErrPartialWrite = errors.New("tenant committed but directory write failed")
)

// Directory is the data access interface for the shared directory database.
// It is the only path by which an organization id is translated into the
// organization_db routing key.
type Directory interface {
	Ping(ctx context.Context) error

	CreateOrganization(ctx context.Context, org *models.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	ListOrganizations(ctx context.Context, filter OrganizationFilter) ([]*models.Organization, int, error)
	UpdateOrganization(ctx context.Context, id uuid.UUID, set *UpdateSet) (*models.Organization, error)
	SetOrganizationStatus(ctx context.Context, id uuid.UUID, status string) error

	CreateOrganizationAdmin(ctx context.Context, admin *models.OrganizationAdmin) error
	GetOrganizationAdmin(ctx context.Context, organizationID uuid.UUID) (*models.OrganizationAdmin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (*models.OrganizationAdmin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.OrganizationAdmin, error)
	GetAdminByResetToken(ctx context.Context, token string) (*models.OrganizationAdmin, error)
	SetAdminResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	TouchAdminLogin(ctx context.Context, id uuid.UUID) error

	EnsureSuperadmin(ctx context.Context, name, email, passwordHash string) error
	GetSuperadminByEmail(ctx context.Context, email string) (*models.Superadmin, error)
	GetSuperadminByID(ctx context.Context, id uuid.UUID) (*models.Superadmin, error)
	GetSuperadminByResetToken(ctx context.Context, token string) (*models.Superadmin, error)
	SetSuperadminResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	UpdateSuperadminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchSuperadminLogin(ctx context.Context, id uuid.UUID) error

	ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, id uuid.UUID, set *UpdateSet) (*models.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error

	GetPaymentGateway(ctx context.Context) (*models.PaymentGatewaySettings, error)
	SavePaymentGateway(ctx context.Context, settings *models.PaymentGatewaySettings) error
}

// Tenant is the data access interface for one organization's own database.
// Obtain instances through the Registry so every request for the same tenant
// shares one connection pool.
type Tenant interface {
	GetAdmin(ctx context.Context) (*models.OrganizationAdmin, error)

	GetSMTPSettings(ctx context.Context) (*models.SMTPSettings, error)
	ReplaceSMTPSettings(ctx context.Context, s *models.SMTPSettings) (*models.SMTPSettings, error)
	UpdateSMTPSettings(ctx context.Context, set *UpdateSet) (*models.SMTPSettings, error)

	GetBranding(ctx context.Context) (*models.BrandingSettings, error)
	ReplaceBranding(ctx context.Context, b *models.BrandingSettings) (*models.BrandingSettings, error)
	UpdateBranding(ctx context.Context, set *UpdateSet) (*models.BrandingSettings, error)

	GetFreeTrial(ctx context.Context) (*models.FreeTrialSettings, error)
	ReplaceFreeTrial(ctx context.Context, f *models.FreeTrialSettings) (*models.FreeTrialSettings, error)

	GetInvoiceSettings(ctx context.Context) (*models.InvoiceSettings, error)
	ReplaceInvoiceSettings(ctx context.Context, s *models.InvoiceSettings) (*models.InvoiceSettings, error)
	NextInvoiceNumber(ctx context.Context, financialYear, prefix string) (int64, error)
}

// OrganizationFilter narrows directory organization listings.
type OrganizationFilter struct {
	Status string
	Plan   string
	Page   int
	Limit  int
}
