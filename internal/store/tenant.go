package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// TenantStore implements the Tenant interface against one organization's
// database. Every method lazily bootstraps the tenant schema, so a freshly
// provisioned database is usable on first access by any feature module.
type TenantStore struct {
	db *TenantDB
}

// NewTenantStore wraps a registry handle.
func NewTenantStore(db *TenantDB) *TenantStore {
	return &TenantStore{db: db}
}

// --- Admin record (tenant copy) ---

// GetAdmin returns the tenant's admin record. Each tenant database holds
// exactly one.
func (s *TenantStore) GetAdmin(ctx context.Context) (*models.OrganizationAdmin, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	a, err := scanAdmin(s.db.Pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM organization_admin LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant admin: %w", err)
	}
	return a, nil
}

// CreateAdmin inserts the tenant copy of the admin record during provisioning.
func (s *TenantStore) CreateAdmin(ctx context.Context, admin *models.OrganizationAdmin) error {
	if err := s.db.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO organization_admin (id, organization_id, name, email, phone, password_hash, role, tax_id, address, city, state, postal_code, country, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		admin.ID, admin.OrganizationID, admin.Name, admin.Email, admin.Phone, admin.PasswordHash,
		admin.Role, admin.TaxID, admin.Address, admin.City, admin.State, admin.PostalCode,
		admin.Country, admin.IsActive, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create tenant admin: %w", err)
	}
	return nil
}

// --- SMTP settings ---

const smtpColumns = `id, host, port, username, password, from_email, from_name, secure, created_at, updated_at`

func scanSMTP(row pgx.Row) (*models.SMTPSettings, error) {
	var m models.SMTPSettings
	err := row.Scan(&m.ID, &m.Host, &m.Port, &m.Username, &m.Password,
		&m.FromEmail, &m.FromName, &m.Secure, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *TenantStore) GetSMTPSettings(ctx context.Context) (*models.SMTPSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	m, err := scanSMTP(s.db.Pool.QueryRow(ctx,
		`SELECT `+smtpColumns+` FROM smtp_settings ORDER BY updated_at DESC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get smtp settings: %w", err)
	}
	return m, nil
}

// ReplaceSMTPSettings enforces the at-most-one-row lifecycle: prior rows are
// deleted and the new row inserted in a single transaction. The inserted row
// is returned verbatim.
func (s *TenantStore) ReplaceSMTPSettings(ctx context.Context, m *models.SMTPSettings) (*models.SMTPSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace smtp settings: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM smtp_settings`); err != nil {
		return nil, fmt.Errorf("clear smtp settings: %w", err)
	}

	inserted, err := scanSMTP(tx.QueryRow(ctx,
		`INSERT INTO smtp_settings (id, host, port, username, password, from_email, from_name, secure, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+smtpColumns,
		m.ID, m.Host, m.Port, m.Username, m.Password, m.FromEmail, m.FromName,
		m.Secure, m.CreatedAt, m.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert smtp settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit smtp settings: %w", err)
	}
	return inserted, nil
}

func (s *TenantStore) UpdateSMTPSettings(ctx context.Context, set *UpdateSet) (*models.SMTPSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if set.Empty() {
		return s.GetSMTPSettings(ctx)
	}

	clause, args := set.Clause(1)
	query := fmt.Sprintf(
		`UPDATE smtp_settings SET %s, updated_at = NOW() RETURNING %s`, clause, smtpColumns)

	m, err := scanSMTP(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update smtp settings: %w", err)
	}
	return m, nil
}

// --- Branding ---

const brandingColumns = `id, site_name, logo_url, favicon_url, primary_color, secondary_color, created_at, updated_at`

func scanBranding(row pgx.Row) (*models.BrandingSettings, error) {
	var b models.BrandingSettings
	err := row.Scan(&b.ID, &b.SiteName, &b.LogoURL, &b.FaviconURL,
		&b.PrimaryColor, &b.SecondaryColor, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *TenantStore) GetBranding(ctx context.Context) (*models.BrandingSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	b, err := scanBranding(s.db.Pool.QueryRow(ctx,
		`SELECT `+brandingColumns+` FROM branding_settings ORDER BY updated_at DESC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get branding: %w", err)
	}
	return b, nil
}

func (s *TenantStore) ReplaceBranding(ctx context.Context, b *models.BrandingSettings) (*models.BrandingSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace branding: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM branding_settings`); err != nil {
		return nil, fmt.Errorf("clear branding: %w", err)
	}

	inserted, err := scanBranding(tx.QueryRow(ctx,
		`INSERT INTO branding_settings (id, site_name, logo_url, favicon_url, primary_color, secondary_color, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+brandingColumns,
		b.ID, b.SiteName, b.LogoURL, b.FaviconURL, b.PrimaryColor, b.SecondaryColor,
		b.CreatedAt, b.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert branding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit branding: %w", err)
	}
	return inserted, nil
}

func (s *TenantStore) UpdateBranding(ctx context.Context, set *UpdateSet) (*models.BrandingSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if set.Empty() {
		return s.GetBranding(ctx)
	}

	clause, args := set.Clause(1)
	query := fmt.Sprintf(
		`UPDATE branding_settings SET %s, updated_at = NOW() RETURNING %s`, clause, brandingColumns)

	b, err := scanBranding(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update branding: %w", err)
	}
	return b, nil
}

// --- Free trial ---

const freeTrialColumns = `id, days, created_at, updated_at`

func scanFreeTrial(row pgx.Row) (*models.FreeTrialSettings, error) {
	var f models.FreeTrialSettings
	if err := row.Scan(&f.ID, &f.Days, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *TenantStore) GetFreeTrial(ctx context.Context) (*models.FreeTrialSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	f, err := scanFreeTrial(s.db.Pool.QueryRow(ctx,
		`SELECT `+freeTrialColumns+` FROM free_trial_settings ORDER BY updated_at DESC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get free trial: %w", err)
	}
	return f, nil
}

func (s *TenantStore) ReplaceFreeTrial(ctx context.Context, f *models.FreeTrialSettings) (*models.FreeTrialSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace free trial: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM free_trial_settings`); err != nil {
		return nil, fmt.Errorf("clear free trial: %w", err)
	}

	inserted, err := scanFreeTrial(tx.QueryRow(ctx,
		`INSERT INTO free_trial_settings (id, days, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+freeTrialColumns,
		f.ID, f.Days, f.CreatedAt, f.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert free trial: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit free trial: %w", err)
	}
	return inserted, nil
}

// --- Invoice numbering ---

const invoiceSettingsColumns = `id, prefix, financial_year, created_at, updated_at`

func scanInvoiceSettings(row pgx.Row) (*models.InvoiceSettings, error) {
	var is models.InvoiceSettings
	if err := row.Scan(&is.ID, &is.Prefix, &is.FinancialYear, &is.CreatedAt, &is.UpdatedAt); err != nil {
		return nil, err
	}
	return &is, nil
}

func (s *TenantStore) GetInvoiceSettings(ctx context.Context) (*models.InvoiceSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	is, err := scanInvoiceSettings(s.db.Pool.QueryRow(ctx,
		`SELECT `+invoiceSettingsColumns+` FROM invoice_settings ORDER BY updated_at DESC LIMIT 1`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice settings: %w", err)
	}
	return is, nil
}

func (s *TenantStore) ReplaceInvoiceSettings(ctx context.Context, is *models.InvoiceSettings) (*models.InvoiceSettings, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return nil, err
	}
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace invoice settings: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_settings`); err != nil {
		return nil, fmt.Errorf("clear invoice settings: %w", err)
	}

	inserted, err := scanInvoiceSettings(tx.QueryRow(ctx,
		`INSERT INTO invoice_settings (id, prefix, financial_year, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+invoiceSettingsColumns,
		is.ID, is.Prefix, is.FinancialYear, is.CreatedAt, is.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert invoice settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice settings: %w", err)
	}
	return inserted, nil
}

// NextInvoiceNumber allocates the next number for (financialYear, prefix).
// The read-modify-write happens inside the database in a single statement,
// so concurrent allocations never return the same value.
func (s *TenantStore) NextInvoiceNumber(ctx context.Context, financialYear, prefix string) (int64, error) {
	if err := s.db.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var n int64
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO invoice_counters (financial_year, prefix, last_number, updated_at)
		 VALUES ($1, $2, 1, NOW())
		 ON CONFLICT (financial_year, prefix) DO UPDATE SET
		   last_number = invoice_counters.last_number + 1,
		   updated_at = NOW()
		 RETURNING last_number`,
		financialYear, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("allocate invoice number: %w", err)
	}
	return n, nil
}
