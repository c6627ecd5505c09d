package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 15 * time.Minute

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  any    `json:"user"`
}

// NewLoginHandler returns the handler for POST /api/auth/login. It accepts
// superadmin and organization-admin credentials; the role in the issued token
// decides which gates apply downstream.
func NewLoginHandler(dir store.Directory, tokens TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "email and password are required")
			return
		}

		// Superadmins first; the two account tables are disjoint by email in
		// practice, and superadmin wins if they ever collide.
		sa, err := dir.GetSuperadminByEmail(r.Context(), req.Email)
		if err == nil {
			loginSuperadmin(w, r, dir, tokens, sa, req.Password)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
			return
		}

		admin, err := dir.GetAdminByEmail(r.Context(), req.Email)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
			return
		}
		loginAdmin(w, r, dir, tokens, admin, req.Password)
	}
}

func loginSuperadmin(w http.ResponseWriter, r *http.Request, dir store.Directory, tokens TokenIssuer, sa *models.Superadmin, password string) {
	if bcrypt.CompareHashAndPassword([]byte(sa.PasswordHash), []byte(password)) != nil {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	if !sa.IsActive {
		response.Error(w, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is deactivated")
		return
	}

	token, err := tokens.Issue(sa.ID, models.RoleSuperadmin, nil)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	go func() {
		if err := dir.TouchSuperadminLogin(context.Background(), sa.ID); err != nil {
			slog.Warn("touch superadmin login failed", "id", sa.ID, "error", err)
		}
	}()

	response.JSON(w, loginResponse{Token: token, Role: models.RoleSuperadmin, User: sa})
}

func loginAdmin(w http.ResponseWriter, r *http.Request, dir store.Directory, tokens TokenIssuer, admin *models.OrganizationAdmin, password string) {
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	if !admin.IsActive {
		response.Error(w, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is deactivated")
		return
	}

	orgID := admin.OrganizationID
	token, err := tokens.Issue(admin.ID, models.RoleAdmin, &orgID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	go func() {
		if err := dir.TouchAdminLogin(context.Background(), admin.ID); err != nil {
			slog.Warn("touch admin login failed", "id", admin.ID, "error", err)
		}
	}()

	response.JSON(w, loginResponse{Token: token, Role: models.RoleAdmin, User: admin})
}

// NewForgotPasswordHandler returns the handler for POST /api/auth/forgot-password.
// It stores a short-lived reset token on the account; delivering the token by
// email is the mail collaborator's job. The response is deliberately the same
// whether or not the email exists.
func NewForgotPasswordHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "email is required")
			return
		}

		token, err := newResetToken()
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not start password reset")
			return
		}
		expiry := time.Now().UTC().Add(resetTokenTTL)

		if sa, err := dir.GetSuperadminByEmail(r.Context(), req.Email); err == nil {
			if err := dir.SetSuperadminResetToken(r.Context(), sa.ID, token, expiry); err != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not start password reset")
				return
			}
			slog.Info("password reset token issued", "role", models.RoleSuperadmin, "id", sa.ID)
		} else if admin, err := dir.GetAdminByEmail(r.Context(), req.Email); err == nil {
			if err := dir.SetAdminResetToken(r.Context(), admin.ID, token, expiry); err != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not start password reset")
				return
			}
			slog.Info("password reset token issued", "role", models.RoleAdmin, "id", admin.ID)
		}

		response.Message(w, "If the email exists, a reset link has been sent")
	}
}

// NewResetPasswordHandler returns the handler for POST /api/auth/reset-password.
// Admin resets go through the dual writer so the tenant copy stays in step.
// bcryptCost is the configured work factor, shared with every other hashing
// site.
func NewResetPasswordHandler(dir store.Directory, updater AdminUpdater, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Token == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "token is required")
			return
		}
		if len(req.NewPassword) < 8 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "New password must be at least 8 characters")
			return
		}

		if sa, err := dir.GetSuperadminByResetToken(r.Context(), req.Token); err == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
			if err != nil {
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed")
				return
			}
			if err := dir.UpdateSuperadminPassword(r.Context(), sa.ID, string(hash)); err != nil {
				writeStoreError(w, err, "Account not found")
				return
			}
			response.Message(w, "Password has been reset")
			return
		}

		admin, err := dir.GetAdminByResetToken(r.Context(), req.Token)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired reset token")
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed")
			return
		}

		org, err := dir.GetOrganization(r.Context(), admin.OrganizationID)
		if err != nil {
			writeStoreError(w, err, "Organization not found")
			return
		}

		if err := updater.ResetAdminPassword(r.Context(), org, admin.ID, req.NewPassword); err != nil {
			writeStoreError(w, err, "Admin not found")
			return
		}
		response.Message(w, "Password has been reset")
	}
}

func newResetToken() (string, error) {
	var raw [24]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}
