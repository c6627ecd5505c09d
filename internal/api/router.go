package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/manoj8056887579/Accounting1-sub001/internal/api/middleware"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	LoginHandler          http.HandlerFunc
	ForgotPasswordHandler http.HandlerFunc
	ResetPasswordHandler  http.HandlerFunc

	CreateOrganization    http.HandlerFunc
	ListOrganizations     http.HandlerFunc
	GetOrganization       http.HandlerFunc
	UpdateOrganization    http.HandlerFunc
	SetOrganizationStatus http.HandlerFunc

	GetOrganizationAdmin    http.HandlerFunc
	UpdateOrganizationAdmin http.HandlerFunc

	GetSMTP    http.HandlerFunc
	SaveSMTP   http.HandlerFunc
	UpdateSMTP http.HandlerFunc

	GetBranding    http.HandlerFunc
	SaveBranding   http.HandlerFunc
	UpdateBranding http.HandlerFunc

	GetFreeTrial  http.HandlerFunc
	SaveFreeTrial http.HandlerFunc

	GetInvoiceSettings    http.HandlerFunc
	SaveInvoiceSettings   http.HandlerFunc
	AllocateInvoiceNumber http.HandlerFunc

	ListPlans  http.HandlerFunc
	CreatePlan http.HandlerFunc
	UpdatePlan http.HandlerFunc
	DeletePlan http.HandlerFunc

	GetPaymentGateway  http.HandlerFunc
	SavePaymentGateway http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/health", orNotImplemented(deps.HealthHandler))

	// Public auth routes
	r.Post("/api/auth/login", orNotImplemented(deps.LoginHandler))
	r.Post("/api/auth/forgot-password", orNotImplemented(deps.ForgotPasswordHandler))
	r.Post("/api/auth/reset-password", orNotImplemented(deps.ResetPasswordHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		// Platform-global console routes: superadmin only.
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireRole(models.RoleSuperadmin))
			r.Use(deps.Auth.RequireAccountActive)

			r.Post("/api/superadmin/organization", orNotImplemented(deps.CreateOrganization))
			r.Get("/api/superadmin/organization", orNotImplemented(deps.ListOrganizations))

			r.Get("/api/superadmin/plans", orNotImplemented(deps.ListPlans))
			r.Post("/api/superadmin/plans", orNotImplemented(deps.CreatePlan))
			r.Put("/api/superadmin/plans/{planId}", orNotImplemented(deps.UpdatePlan))
			r.Delete("/api/superadmin/plans/{planId}", orNotImplemented(deps.DeletePlan))

			r.Get("/api/superadmin/paymentgateway", orNotImplemented(deps.GetPaymentGateway))
			r.Post("/api/superadmin/paymentgateway", orNotImplemented(deps.SavePaymentGateway))
		})

		// Tenant-scoped routes: a superadmin reaches any organization, an
		// admin only their own.
		r.Route("/api/superadmin/organization/{organizationId}", func(r chi.Router) {
			r.Use(deps.Auth.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
			r.Use(deps.Auth.ResolveOrganization)
			r.Use(deps.Auth.RequireTenantAccess)

			// Status changes stay reachable while the tenant is suspended,
			// otherwise a suspended organization could never be reactivated.
			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireRole(models.RoleSuperadmin))
				r.Use(deps.Auth.RequireAccountActive)

				r.Patch("/status", orNotImplemented(deps.SetOrganizationStatus))
			})

			r.Group(func(r chi.Router) {
				r.Use(deps.Auth.RequireTenantActive)
				r.Use(deps.Auth.RequireAccountActive)

				r.Get("/", orNotImplemented(deps.GetOrganization))
				r.Put("/", orNotImplemented(deps.UpdateOrganization))

				r.Get("/branding", orNotImplemented(deps.GetBranding))
				r.Post("/branding", orNotImplemented(deps.SaveBranding))
				r.Put("/branding", orNotImplemented(deps.UpdateBranding))
			})
		})

		r.Route("/api/superadmin/organizationadmin/{organizationId}", func(r chi.Router) {
			tenantGates(r, deps)

			r.Get("/", orNotImplemented(deps.GetOrganizationAdmin))
			r.Put("/", orNotImplemented(deps.UpdateOrganizationAdmin))
		})

		r.Route("/api/superadmin/smtp/{organizationId}", func(r chi.Router) {
			tenantGates(r, deps)

			r.Get("/", orNotImplemented(deps.GetSMTP))
			r.Post("/", orNotImplemented(deps.SaveSMTP))
			r.Put("/", orNotImplemented(deps.UpdateSMTP))
		})

		r.Route("/api/superadmin/freetrial/{organizationId}", func(r chi.Router) {
			tenantGates(r, deps)

			r.Get("/", orNotImplemented(deps.GetFreeTrial))
			r.Post("/", orNotImplemented(deps.SaveFreeTrial))
		})

		r.Route("/api/superadmin/finance/{organizationId}", func(r chi.Router) {
			tenantGates(r, deps)

			r.Get("/", orNotImplemented(deps.GetInvoiceSettings))
			r.Post("/", orNotImplemented(deps.SaveInvoiceSettings))
			r.Post("/allocate", orNotImplemented(deps.AllocateInvoiceNumber))
		})
	})

	return r
}

// tenantGates applies the full tenant authorization chain: role check,
// organization resolution, access check, tenant-active check, account-active
// check — in that order.
func tenantGates(r chi.Router, deps Dependencies) {
	r.Use(deps.Auth.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
	r.Use(deps.Auth.ResolveOrganization)
	r.Use(deps.Auth.RequireTenantAccess)
	r.Use(deps.Auth.RequireTenantActive)
	r.Use(deps.Auth.RequireAccountActive)
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented")
	}
}
