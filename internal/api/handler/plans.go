package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

// NewListPlansHandler returns the handler for GET /api/superadmin/plans.
func NewListPlansHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := dir.ListPlans(r.Context())
		if err != nil {
			writeStoreError(w, err, "Plan not found")
			return
		}
		if plans == nil {
			plans = []*models.SubscriptionPlan{}
		}
		response.JSON(w, plans)
	}
}

// NewCreatePlanHandler returns the handler for POST /api/superadmin/plans.
func NewCreatePlanHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name      string   `json:"name"`
			Price     int64    `json:"price"`
			Currency  string   `json:"currency"`
			UserLimit int      `json:"user_limit"`
			Modules   []string `json:"modules"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if !models.ValidPlan(req.Name) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "name must be one of basic, standard, premium")
			return
		}
		if req.Price < 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "price must not be negative")
			return
		}
		if req.UserLimit <= 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "user_limit must be positive")
			return
		}
		if req.Currency == "" {
			req.Currency = "INR"
		}
		if req.Modules == nil {
			req.Modules = []string{}
		}

		now := time.Now().UTC()
		plan := &models.SubscriptionPlan{
			ID:        uuid.New(),
			Name:      req.Name,
			Price:     req.Price,
			Currency:  req.Currency,
			UserLimit: req.UserLimit,
			Modules:   req.Modules,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := dir.CreatePlan(r.Context(), plan); err != nil {
			writeStoreError(w, err, "Plan not found")
			return
		}
		response.Created(w, plan, "Plan created")
	}
}

// NewUpdatePlanHandler returns the handler for PUT /api/superadmin/plans/{planId}.
func NewUpdatePlanHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "planId"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "planId must be a valid UUID")
			return
		}

		var req struct {
			Price     *int64    `json:"price"`
			Currency  *string   `json:"currency"`
			UserLimit *int      `json:"user_limit"`
			Modules   *[]string `json:"modules"`
			IsActive  *bool     `json:"is_active"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Price != nil && *req.Price < 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "price must not be negative")
			return
		}
		if req.UserLimit != nil && *req.UserLimit <= 0 {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "user_limit must be positive")
			return
		}

		set := store.NewUpdateSet().
			SetString("currency", req.Currency).
			SetInt("user_limit", req.UserLimit).
			SetBool("is_active", req.IsActive)
		if req.Price != nil {
			set.Set("price", *req.Price)
		}
		if req.Modules != nil {
			set.Set("modules", *req.Modules)
		}
		if set.Empty() {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "No updatable fields in request")
			return
		}

		plan, err := dir.UpdatePlan(r.Context(), id, set)
		if err != nil {
			writeStoreError(w, err, "Plan not found")
			return
		}
		response.JSON(w, plan)
	}
}

// NewDeletePlanHandler returns the handler for DELETE /api/superadmin/plans/{planId}.
func NewDeletePlanHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "planId"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "planId must be a valid UUID")
			return
		}
		if err := dir.DeletePlan(r.Context(), id); err != nil {
			writeStoreError(w, err, "Plan not found")
			return
		}
		response.Message(w, "Plan deleted")
	}
}
