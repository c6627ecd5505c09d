package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the admin API server.
type Config struct {
	Server    ServerConfig
	Directory DirectoryConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

// DirectoryConfig describes the shared directory database. Tenant databases
// live on the same server; the registry swaps the database name in this URL.
type DirectoryConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// BootstrapConfig seeds the first superadmin account at startup. Optional;
// when email is empty no account is seeded.
type BootstrapConfig struct {
	SuperadminEmail    string
	SuperadminPassword string
}

type RateLimitConfig struct {
	RequestsPerMin int
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("ADMIN_PORT", 8080),
			Env:  envString("ADMIN_ENV", "development"),
		},
		Directory: DirectoryConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			TokenTTL:   envDuration("JWT_TOKEN_TTL", 24*time.Hour),
			BcryptCost: envInt("BCRYPT_COST", 12),
		},
		Bootstrap: BootstrapConfig{
			SuperadminEmail:    os.Getenv("SUPERADMIN_EMAIL"),
			SuperadminPassword: os.Getenv("SUPERADMIN_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMin: envInt("RATE_LIMIT_PER_MIN", 120),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Directory.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.Auth.JWTSecret))
	}

	if c.Auth.BcryptCost < 10 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 31, got %d", c.Auth.BcryptCost)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive")
	}

	if c.Bootstrap.SuperadminEmail != "" && c.Bootstrap.SuperadminPassword == "" {
		return fmt.Errorf("SUPERADMIN_PASSWORD is required when SUPERADMIN_EMAIL is set")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
