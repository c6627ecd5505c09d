package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// DirectoryStore implements the Directory interface over the shared
// directory database using pgx/v5.
type DirectoryStore struct {
	pool *pgxpool.Pool
}

// NewDirectoryStore creates a new DirectoryStore.
func NewDirectoryStore(pool *pgxpool.Pool) *DirectoryStore {
	return &DirectoryStore{pool: pool}
}

// Ping checks database connectivity.
func (s *DirectoryStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Organizations ---

const organizationColumns = `id, name, slug, organization_db, admin_email, admin_phone, plan, user_limit, status, enabled_modules, created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.OrganizationDB, &o.AdminEmail, &o.AdminPhone,
		&o.Plan, &o.UserLimit, &o.Status, &o.EnabledModules, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *DirectoryStore) CreateOrganization(ctx context.Context, org *models.Organization) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, slug, organization_db, admin_email, admin_phone, plan, user_limit, status, enabled_modules, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		org.ID, org.Name, org.Slug, org.OrganizationDB, org.AdminEmail, org.AdminPhone,
		org.Plan, org.UserLimit, org.Status, org.EnabledModules, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (s *DirectoryStore) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o, err := scanOrganization(s.pool.QueryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

func (s *DirectoryStore) ListOrganizations(ctx context.Context, filter OrganizationFilter) ([]*models.Organization, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Plan != "" {
		conditions = append(conditions, fmt.Sprintf("plan = $%d", argIdx))
		args = append(args, filter.Plan)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM organizations WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(
		`SELECT %s FROM organizations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		organizationColumns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, total, rows.Err()
}

func (s *DirectoryStore) UpdateOrganization(ctx context.Context, id uuid.UUID, set *UpdateSet) (*models.Organization, error) {
	if set.Empty() {
		return s.GetOrganization(ctx, id)
	}

	clause, setArgs := set.Clause(2)
	query := fmt.Sprintf(
		`UPDATE organizations SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		clause, organizationColumns)
	args := append([]any{id}, setArgs...)

	o, err := scanOrganization(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return o, nil
}

func (s *DirectoryStore) SetOrganizationStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE organizations SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set organization status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Organization admins (directory copy) ---

const adminColumns = `id, organization_id, name, email, phone, password_hash, role, tax_id, address, city, state, postal_code, country, is_active, last_login_at, reset_token, reset_token_expiry, created_at, updated_at`

func scanAdmin(row pgx.Row) (*models.OrganizationAdmin, error) {
	var a models.OrganizationAdmin
	err := row.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash,
		&a.Role, &a.TaxID, &a.Address, &a.City, &a.State, &a.PostalCode, &a.Country,
		&a.IsActive, &a.LastLoginAt, &a.ResetToken, &a.ResetTokenExpiry, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *DirectoryStore) CreateOrganizationAdmin(ctx context.Context, admin *models.OrganizationAdmin) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO organization_admins (id, organization_id, name, email, phone, password_hash, role, tax_id, address, city, state, postal_code, country, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		admin.ID, admin.OrganizationID, admin.Name, admin.Email, admin.Phone, admin.PasswordHash,
		admin.Role, admin.TaxID, admin.Address, admin.City, admin.State, admin.PostalCode,
		admin.Country, admin.IsActive, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create organization admin: %w", err)
	}
	return nil
}

func (s *DirectoryStore) GetOrganizationAdmin(ctx context.Context, organizationID uuid.UUID) (*models.OrganizationAdmin, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM organization_admins WHERE organization_id = $1`, organizationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization admin: %w", err)
	}
	return a, nil
}

func (s *DirectoryStore) GetAdminByID(ctx context.Context, id uuid.UUID) (*models.OrganizationAdmin, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM organization_admins WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by id: %w", err)
	}
	return a, nil
}

func (s *DirectoryStore) GetAdminByEmail(ctx context.Context, email string) (*models.OrganizationAdmin, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM organization_admins WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return a, nil
}

func (s *DirectoryStore) GetAdminByResetToken(ctx context.Context, token string) (*models.OrganizationAdmin, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM organization_admins WHERE reset_token = $1 AND reset_token_expiry > NOW()`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin by reset token: %w", err)
	}
	return a, nil
}

func (s *DirectoryStore) SetAdminResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE organization_admins SET reset_token = $2, reset_token_expiry = $3, updated_at = NOW() WHERE id = $1`,
		id, token, expiry)
	if err != nil {
		return fmt.Errorf("set admin reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DirectoryStore) TouchAdminLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE organization_admins SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch admin login: %w", err)
	}
	return nil
}

// --- Superadmins ---

const superadminColumns = `id, name, email, password_hash, is_active, last_login_at, reset_token, reset_token_expiry, created_at, updated_at`

func scanSuperadmin(row pgx.Row) (*models.Superadmin, error) {
	var sa models.Superadmin
	err := row.Scan(&sa.ID, &sa.Name, &sa.Email, &sa.PasswordHash, &sa.IsActive,
		&sa.LastLoginAt, &sa.ResetToken, &sa.ResetTokenExpiry, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

// EnsureSuperadmin inserts the bootstrap superadmin if the email is not
// already present. Existing accounts are left untouched.
func (s *DirectoryStore) EnsureSuperadmin(ctx context.Context, name, email, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO superadmins (id, name, email, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New(), name, email, passwordHash)
	if err != nil {
		return fmt.Errorf("ensure superadmin: %w", err)
	}
	return nil
}

func (s *DirectoryStore) GetSuperadminByEmail(ctx context.Context, email string) (*models.Superadmin, error) {
	sa, err := scanSuperadmin(s.pool.QueryRow(ctx,
		`SELECT `+superadminColumns+` FROM superadmins WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get superadmin by email: %w", err)
	}
	return sa, nil
}

func (s *DirectoryStore) GetSuperadminByID(ctx context.Context, id uuid.UUID) (*models.Superadmin, error) {
	sa, err := scanSuperadmin(s.pool.QueryRow(ctx,
		`SELECT `+superadminColumns+` FROM superadmins WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get superadmin by id: %w", err)
	}
	return sa, nil
}

func (s *DirectoryStore) GetSuperadminByResetToken(ctx context.Context, token string) (*models.Superadmin, error) {
	sa, err := scanSuperadmin(s.pool.QueryRow(ctx,
		`SELECT `+superadminColumns+` FROM superadmins WHERE reset_token = $1 AND reset_token_expiry > NOW()`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get superadmin by reset token: %w", err)
	}
	return sa, nil
}

func (s *DirectoryStore) SetSuperadminResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE superadmins SET reset_token = $2, reset_token_expiry = $3, updated_at = NOW() WHERE id = $1`,
		id, token, expiry)
	if err != nil {
		return fmt.Errorf("set superadmin reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DirectoryStore) UpdateSuperadminPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE superadmins SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return fmt.Errorf("update superadmin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DirectoryStore) TouchSuperadminLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE superadmins SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch superadmin login: %w", err)
	}
	return nil
}

// --- Subscription plans ---

const planColumns = `id, name, price, currency, user_limit, modules, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Currency, &p.UserLimit, &p.Modules,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DirectoryStore) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+planColumns+` FROM subscription_plans ORDER BY price ASC`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *DirectoryStore) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscription_plans (id, name, price, currency, user_limit, modules, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		plan.ID, plan.Name, plan.Price, plan.Currency, plan.UserLimit, plan.Modules,
		plan.IsActive, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (s *DirectoryStore) UpdatePlan(ctx context.Context, id uuid.UUID, set *UpdateSet) (*models.SubscriptionPlan, error) {
	if set.Empty() {
		p, err := scanPlan(s.pool.QueryRow(ctx,
			`SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("get plan: %w", err)
		}
		return p, nil
	}

	clause, setArgs := set.Clause(2)
	query := fmt.Sprintf(
		`UPDATE subscription_plans SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		clause, planColumns)
	args := append([]any{id}, setArgs...)

	p, err := scanPlan(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return p, nil
}

func (s *DirectoryStore) DeletePlan(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Payment gateway ---

const gatewayColumns = `id, provider, key_id, key_secret, enabled, created_at, updated_at`

func (s *DirectoryStore) GetPaymentGateway(ctx context.Context) (*models.PaymentGatewaySettings, error) {
	var g models.PaymentGatewaySettings
	err := s.pool.QueryRow(ctx,
		`SELECT `+gatewayColumns+` FROM payment_gateway_settings ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&g.ID, &g.Provider, &g.KeyID, &g.KeySecret, &g.Enabled, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment gateway: %w", err)
	}
	return &g, nil
}

// SavePaymentGateway replaces the singleton settings row: prior rows are
// deleted and the new row inserted in one transaction.
func (s *DirectoryStore) SavePaymentGateway(ctx context.Context, settings *models.PaymentGatewaySettings) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save payment gateway: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM payment_gateway_settings`); err != nil {
		return fmt.Errorf("clear payment gateway: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO payment_gateway_settings (id, provider, key_id, key_secret, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		settings.ID, settings.Provider, settings.KeyID, settings.KeySecret,
		settings.Enabled, settings.CreatedAt, settings.UpdatedAt); err != nil {
		return fmt.Errorf("insert payment gateway: %w", err)
	}

	return tx.Commit(ctx)
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
