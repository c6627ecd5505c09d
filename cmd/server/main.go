// Package main is the entrypoint for the tenant administration API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/manoj8056887579/Accounting1-sub001/internal/api"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/handler"
	mw "github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/auth"
	"github.com/manoj8056887579/Accounting1-sub001/internal/cache"
	"github.com/manoj8056887579/Accounting1-sub001/internal/config"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the directory database
	pool, err := store.Connect(ctx, cfg.Directory)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("directory database connected")

	// 3. Run directory migrations
	if err := store.RunMigrations(cfg.Directory.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("directory migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer func() { _ = redisCache.Close() }()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Stores and tenant connection registry
	directory := store.NewDirectoryStore(pool)
	registry := store.NewRegistry(cfg.Directory)
	defer registry.Close()

	dualWriter := store.NewDualWriter(directory, registry, cfg.Auth.BcryptCost)
	provisioner := store.NewProvisioner(directory, registry, cfg.Auth.BcryptCost)

	// 6. Seed the bootstrap superadmin if configured
	if cfg.Bootstrap.SuperadminEmail != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Bootstrap.SuperadminPassword), cfg.Auth.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash bootstrap password: %w", err)
		}
		if err := directory.EnsureSuperadmin(ctx, "Superadmin", cfg.Bootstrap.SuperadminEmail, string(hash)); err != nil {
			return fmt.Errorf("seed superadmin: %w", err)
		}
		slog.Info("bootstrap superadmin ensured", "email", cfg.Bootstrap.SuperadminEmail)
	}

	// 7. Build router with dependencies
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authMW := mw.NewAuth(tokens, directory)
	rateLimit := mw.NewRateLimit(redisCache, cfg.RateLimit.RequestsPerMin)

	deps := api.Dependencies{
		Auth:      authMW,
		RateLimit: rateLimit,

		HealthHandler: healthHandler(directory, redisCache),

		LoginHandler:          handler.NewLoginHandler(directory, tokens),
		ForgotPasswordHandler: handler.NewForgotPasswordHandler(directory),
		ResetPasswordHandler:  handler.NewResetPasswordHandler(directory, dualWriter, cfg.Auth.BcryptCost),

		CreateOrganization:    handler.NewCreateOrganizationHandler(provisioner),
		ListOrganizations:     handler.NewListOrganizationsHandler(directory),
		GetOrganization:       handler.NewGetOrganizationHandler(),
		UpdateOrganization:    handler.NewUpdateOrganizationHandler(directory),
		SetOrganizationStatus: handler.NewSetOrganizationStatusHandler(directory),

		GetOrganizationAdmin:    handler.NewGetOrganizationAdminHandler(registry),
		UpdateOrganizationAdmin: handler.NewUpdateOrganizationAdminHandler(dualWriter),

		GetSMTP:    handler.NewGetSMTPHandler(registry),
		SaveSMTP:   handler.NewSaveSMTPHandler(registry),
		UpdateSMTP: handler.NewUpdateSMTPHandler(registry),

		GetBranding:    handler.NewGetBrandingHandler(registry),
		SaveBranding:   handler.NewSaveBrandingHandler(registry),
		UpdateBranding: handler.NewUpdateBrandingHandler(registry),

		GetFreeTrial:  handler.NewGetFreeTrialHandler(registry),
		SaveFreeTrial: handler.NewSaveFreeTrialHandler(registry),

		GetInvoiceSettings:    handler.NewGetInvoiceSettingsHandler(registry),
		SaveInvoiceSettings:   handler.NewSaveInvoiceSettingsHandler(registry),
		AllocateInvoiceNumber: handler.NewAllocateInvoiceNumberHandler(registry),

		ListPlans:  handler.NewListPlansHandler(directory),
		CreatePlan: handler.NewCreatePlanHandler(directory),
		UpdatePlan: handler.NewUpdatePlanHandler(directory),
		DeletePlan: handler.NewDeletePlanHandler(directory),

		GetPaymentGateway:  handler.NewGetPaymentGatewayHandler(directory),
		SavePaymentGateway: handler.NewSavePaymentGatewayHandler(directory),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks directory database and cache connectivity.
func healthHandler(s store.Directory, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded")
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
