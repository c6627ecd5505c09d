package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrCurrentPassword is returned when a password change carries the wrong
// current password. No write happens in either store.
var ErrCurrentPassword = errors.New("current password is incorrect")

// ValidationError is a client-input failure detected before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

var (
	phonePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	postalPattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// AdminUpdate is a sparse organization-admin update. Nil fields are left
// untouched in both stores.
type AdminUpdate struct {
	Name       *string
	Email      *string
	Phone      *string
	TaxID      *string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string

	CurrentPassword *string
	NewPassword     *string
}

// Validate checks field formats. It runs before any database access, so a
// failure has no side effects.
func (u *AdminUpdate) Validate() error {
	if u.Phone != nil && !phonePattern.MatchString(*u.Phone) {
		return &ValidationError{Msg: "Phone number must be exactly 10 digits"}
	}
	if u.PostalCode != nil && !postalPattern.MatchString(*u.PostalCode) {
		return &ValidationError{Msg: "Postal code must be exactly 6 digits"}
	}
	if u.NewPassword != nil {
		if u.CurrentPassword == nil || *u.CurrentPassword == "" {
			return &ValidationError{Msg: "Current password is required to change the password"}
		}
		if len(*u.NewPassword) < 8 {
			return &ValidationError{Msg: "New password must be at least 8 characters"}
		}
	}
	return nil
}

func (u *AdminUpdate) set(hash *string) *UpdateSet {
	set := NewUpdateSet().
		SetString("name", u.Name).
		SetString("email", u.Email).
		SetString("phone", u.Phone).
		SetString("tax_id", u.TaxID).
		SetString("address", u.Address).
		SetString("city", u.City).
		SetString("state", u.State).
		SetString("postal_code", u.PostalCode).
		SetString("country", u.Country).
		SetString("password_hash", hash)
	return set
}

// DualWriter applies the same admin-record mutation to an organization's
// tenant database and to the directory copy. The two stores are independent;
// there is no two-phase commit. The tenant transaction commits first, then
// the directory transaction — a directory failure after the tenant commit
// leaves the stores diverged and is surfaced as ErrPartialWrite.
type DualWriter struct {
	directory  *DirectoryStore
	registry   *Registry
	bcryptCost int
}

// NewDualWriter creates a DualWriter.
func NewDualWriter(directory *DirectoryStore, registry *Registry, bcryptCost int) *DualWriter {
	return &DualWriter{directory: directory, registry: registry, bcryptCost: bcryptCost}
}

// UpdateAdmin applies upd to the admin record of org in both stores and
// returns the updated tenant copy.
func (d *DualWriter) UpdateAdmin(ctx context.Context, org *models.Organization, upd AdminUpdate) (*models.OrganizationAdmin, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	tdb, err := d.registry.Tenant(ctx, org.OrganizationDB)
	if err != nil {
		return nil, err
	}
	ts := NewTenantStore(tdb)

	admin, err := ts.GetAdmin(ctx)
	if err != nil {
		return nil, err
	}

	var hash *string
	if upd.NewPassword != nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(*upd.CurrentPassword)) != nil {
			return nil, ErrCurrentPassword
		}
		h, err := bcrypt.GenerateFromPassword([]byte(*upd.NewPassword), d.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash new password: %w", err)
		}
		s := string(h)
		hash = &s
	}

	set := upd.set(hash)
	if set.Empty() {
		return nil, &ValidationError{Msg: "No updatable fields in request"}
	}

	return d.apply(ctx, tdb, admin.ID, set)
}

// ResetAdminPassword replaces the admin's credential in both stores and
// clears the directory reset token. Used by the reset-token flow, which has
// already proven possession of the token.
func (d *DualWriter) ResetAdminPassword(ctx context.Context, org *models.Organization, adminID uuid.UUID, newPassword string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(newPassword), d.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}
	hash := string(h)

	tdb, err := d.registry.Tenant(ctx, org.OrganizationDB)
	if err != nil {
		return err
	}

	set := NewUpdateSet().
		Set("password_hash", hash).
		Set("reset_token", nil).
		Set("reset_token_expiry", nil)

	_, err = d.apply(ctx, tdb, adminID, set)
	return err
}

// apply runs the sparse update inside a tenant transaction and a directory
// transaction. Tenant commits first; if the directory commit then fails, the
// divergence is logged and reported as ErrPartialWrite.
func (d *DualWriter) apply(ctx context.Context, tdb *TenantDB, adminID uuid.UUID, set *UpdateSet) (*models.OrganizationAdmin, error) {
	clause, setArgs := set.Clause(2)
	args := append([]any{adminID}, setArgs...)

	tenantQuery := fmt.Sprintf(
		`UPDATE organization_admin SET %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		clause, adminColumns)
	directoryQuery := fmt.Sprintf(
		`UPDATE organization_admins SET %s, updated_at = NOW() WHERE id = $1`,
		clause)

	ttx, err := tdb.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tenant tx: %w", err)
	}

	updated, err := scanAdmin(ttx.QueryRow(ctx, tenantQuery, args...))
	if err != nil {
		_ = ttx.Rollback(ctx)
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update tenant admin: %w", err)
	}

	dtx, err := d.directory.pool.Begin(ctx)
	if err != nil {
		_ = ttx.Rollback(ctx)
		return nil, fmt.Errorf("begin directory tx: %w", err)
	}

	tag, err := dtx.Exec(ctx, directoryQuery, args...)
	if err != nil {
		_ = dtx.Rollback(ctx)
		_ = ttx.Rollback(ctx)
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("update directory admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// The directory mirror row is gone; the stores were already diverged
		// before this update. Abort both sides and surface it instead of
		// reporting a success that only landed in the tenant database.
		_ = dtx.Rollback(ctx)
		_ = ttx.Rollback(ctx)
		slog.Error("admin dual-write diverged",
			"admin_id", adminID,
			"columns", set.Columns(),
			"error", "directory admin row missing",
		)
		return nil, fmt.Errorf("%w: directory admin row missing", ErrPartialWrite)
	}

	if err := ttx.Commit(ctx); err != nil {
		_ = dtx.Rollback(ctx)
		return nil, fmt.Errorf("commit tenant tx: %w", err)
	}

	if err := dtx.Commit(ctx); err != nil {
		// The tenant copy is already durable. The stores have diverged and
		// stay that way until the next successful update.
		slog.Error("admin dual-write diverged",
			"admin_id", adminID,
			"columns", set.Columns(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %s", ErrPartialWrite, err)
	}

	return updated, nil
}
