package store

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/manoj8056887579/Accounting1-sub001/internal/config"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// organization_db values are generated at provisioning time and must stay
// safe to splice into CREATE DATABASE as an identifier.
var dbKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{2,40}$`)

// ValidDBKey reports whether key is a well-formed organization_db routing key.
func ValidDBKey(key string) bool {
	return dbKeyPattern.MatchString(key)
}

// Registry owns one connection pool per tenant database, keyed by the
// organization_db routing key. Pools are created lazily on first access and
// live for the process lifetime; concurrent requests for the same tenant
// share the same pool. The registry is constructed once in main and passed
// to handlers explicitly — there is no package-level pool state.
type Registry struct {
	cfg config.DirectoryConfig

	mu      sync.RWMutex
	tenants map[string]*TenantDB
}

// TenantDB is a pooled handle to one tenant's database. The tenant schema is
// bootstrapped idempotently on first use by the feature stores, not by the
// registry.
type TenantDB struct {
	Pool *pgxpool.Pool

	bootMu sync.Mutex
	ready  bool
}

// NewRegistry creates a Registry. cfg supplies the server address and pool
// sizing; the database name in cfg.URL is replaced per tenant.
func NewRegistry(cfg config.DirectoryConfig) *Registry {
	return &Registry{
		cfg:     cfg,
		tenants: make(map[string]*TenantDB),
	}
}

// Tenant returns the pooled handle for the given routing key, opening it on
// first access. The same handle is returned for the same key across calls.
// An unreachable database is an error; the caller never gets a stale or
// default pool.
func (r *Registry) Tenant(ctx context.Context, organizationDB string) (*TenantDB, error) {
	if !ValidDBKey(organizationDB) {
		return nil, fmt.Errorf("invalid organization_db key %q", organizationDB)
	}

	r.mu.RLock()
	db, ok := r.tenants[organizationDB]
	r.mu.RUnlock()
	if ok {
		return db, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have opened the pool while we waited for the lock.
	if db, ok := r.tenants[organizationDB]; ok {
		return db, nil
	}

	pool, err := r.open(ctx, organizationDB)
	if err != nil {
		return nil, err
	}

	db = &TenantDB{Pool: pool}
	r.tenants[organizationDB] = db
	return db, nil
}

// TenantStore resolves the organization's routing key and wraps the handle in
// a feature-level store.
func (r *Registry) TenantStore(ctx context.Context, org *models.Organization) (Tenant, error) {
	db, err := r.Tenant(ctx, org.OrganizationDB)
	if err != nil {
		return nil, err
	}
	return NewTenantStore(db), nil
}

// Close tears down every open tenant pool. Called once at shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, db := range r.tenants {
		db.Pool.Close()
	}
	r.tenants = make(map[string]*TenantDB)
}

func (r *Registry) open(ctx context.Context, organizationDB string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(r.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse tenant database URL: %w", err)
	}
	poolCfg.ConnConfig.Database = organizationDB
	poolCfg.MaxConns = int32(r.cfg.MaxOpenConns)
	poolCfg.MinConns = int32(r.cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = r.cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect tenant database %s: %w", organizationDB, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping tenant database %s: %w", organizationDB, err)
	}

	return pool, nil
}

// ensureSchema applies the tenant DDL once per handle. Safe to call
// concurrently; a failed bootstrap is retried on the next call.
func (t *TenantDB) ensureSchema(ctx context.Context) error {
	t.bootMu.Lock()
	defer t.bootMu.Unlock()

	if t.ready {
		return nil
	}
	for _, stmt := range tenantSchema {
		if _, err := t.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap tenant schema: %w", err)
		}
	}
	t.ready = true
	return nil
}

// tenantSchema holds the idempotent DDL for tenant-scoped tables.
var tenantSchema = []string{
	`CREATE TABLE IF NOT EXISTS organization_admin (
		id UUID PRIMARY KEY,
		organization_id UUID NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'admin',
		tax_id TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login_at TIMESTAMPTZ,
		reset_token TEXT,
		reset_token_expiry TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS smtp_settings (
		id UUID PRIMARY KEY,
		host TEXT NOT NULL,
		port INTEGER NOT NULL,
		username TEXT NOT NULL,
		password TEXT NOT NULL,
		from_email TEXT NOT NULL,
		from_name TEXT NOT NULL DEFAULT '',
		secure BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS branding_settings (
		id UUID PRIMARY KEY,
		site_name TEXT NOT NULL,
		logo_url TEXT NOT NULL DEFAULT '',
		favicon_url TEXT NOT NULL DEFAULT '',
		primary_color TEXT NOT NULL DEFAULT '',
		secondary_color TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS free_trial_settings (
		id UUID PRIMARY KEY,
		days INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_settings (
		id UUID PRIMARY KEY,
		prefix TEXT NOT NULL,
		financial_year TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_counters (
		financial_year TEXT NOT NULL,
		prefix TEXT NOT NULL,
		last_number BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (financial_year, prefix)
	)`,
}
