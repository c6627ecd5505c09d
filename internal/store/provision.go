package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,40}$`)

// CreateOrganizationParams carries everything needed to provision a tenant.
type CreateOrganizationParams struct {
	Name          string
	Slug          string
	Plan          string
	UserLimit     int
	Modules       []string
	AdminName     string
	AdminEmail    string
	AdminPhone    string
	AdminPassword string
}

func (p *CreateOrganizationParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Msg: "Organization name is required"}
	}
	if !slugPattern.MatchString(p.Slug) {
		return &ValidationError{Msg: "Slug must be lowercase letters, digits and hyphens"}
	}
	if !models.ValidPlan(p.Plan) {
		return &ValidationError{Msg: "Plan must be one of basic, standard, premium"}
	}
	if p.UserLimit <= 0 {
		return &ValidationError{Msg: "User limit must be positive"}
	}
	if p.AdminEmail == "" || !strings.Contains(p.AdminEmail, "@") {
		return &ValidationError{Msg: "A valid admin email is required"}
	}
	if !phonePattern.MatchString(p.AdminPhone) {
		return &ValidationError{Msg: "Phone number must be exactly 10 digits"}
	}
	if len(p.AdminPassword) < 8 {
		return &ValidationError{Msg: "Admin password must be at least 8 characters"}
	}
	return nil
}

// Provisioner creates organizations: the directory row, the tenant database
// itself, and the admin record in both stores.
type Provisioner struct {
	directory  *DirectoryStore
	registry   *Registry
	bcryptCost int
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(directory *DirectoryStore, registry *Registry, bcryptCost int) *Provisioner {
	return &Provisioner{directory: directory, registry: registry, bcryptCost: bcryptCost}
}

// CreateOrganization provisions a new tenant. Steps, in order: insert the
// directory row (the routing authority), CREATE DATABASE for the tenant,
// write the admin record to the tenant database, then mirror it into the
// directory. A failure partway leaves earlier steps in place; the directory
// row's pending status marks unfinished provisioning.
func (p *Provisioner) CreateOrganization(ctx context.Context, params CreateOrganizationParams) (*models.Organization, *models.OrganizationAdmin, error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}

	dbKey, err := routingKey(params.Slug)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	org := &models.Organization{
		ID:             uuid.New(),
		Name:           params.Name,
		Slug:           params.Slug,
		OrganizationDB: dbKey,
		AdminEmail:     params.AdminEmail,
		AdminPhone:     params.AdminPhone,
		Plan:           params.Plan,
		UserLimit:      params.UserLimit,
		Status:         models.StatusPending,
		EnabledModules: params.Modules,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if org.EnabledModules == nil {
		org.EnabledModules = []string{}
	}

	if err := p.directory.CreateOrganization(ctx, org); err != nil {
		return nil, nil, err
	}

	// CREATE DATABASE cannot run inside a transaction. dbKey has been
	// validated against the identifier pattern, so quoting it is safe.
	if _, err := p.directory.pool.Exec(ctx, fmt.Sprintf(`CREATE DATABASE %q`, dbKey)); err != nil {
		return nil, nil, fmt.Errorf("create tenant database %s: %w", dbKey, err)
	}

	tdb, err := p.registry.Tenant(ctx, dbKey)
	if err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.AdminPassword), p.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.OrganizationAdmin{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Name:           params.AdminName,
		Email:          params.AdminEmail,
		Phone:          params.AdminPhone,
		PasswordHash:   string(hash),
		Role:           models.RoleAdmin,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Same discipline as updates: tenant copy first, then the directory mirror.
	if err := NewTenantStore(tdb).CreateAdmin(ctx, admin); err != nil {
		return nil, nil, err
	}
	if err := p.directory.CreateOrganizationAdmin(ctx, admin); err != nil {
		slog.Error("admin mirror missing after provisioning",
			"organization_id", org.ID,
			"admin_id", admin.ID,
			"error", err,
		)
		return nil, nil, fmt.Errorf("%w: %s", ErrPartialWrite, err)
	}

	if err := p.directory.SetOrganizationStatus(ctx, org.ID, models.StatusActive); err != nil {
		return nil, nil, err
	}
	org.Status = models.StatusActive

	return org, admin, nil
}

// routingKey derives the immutable organization_db name: the slug with
// hyphens flattened, plus a short random suffix for uniqueness.
func routingKey(slug string) (string, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate routing key: %w", err)
	}
	base := strings.ReplaceAll(slug, "-", "_")
	if len(base) > 27 {
		base = base[:27]
	}
	key := fmt.Sprintf("org_%s_%s", base, hex.EncodeToString(raw[:]))
	if !ValidDBKey(key) {
		return "", fmt.Errorf("derived routing key %q is invalid", key)
	}
	return key, nil
}
