package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/api/response"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

var supportedGateways = map[string]bool{
	"razorpay": true,
	"stripe":   true,
}

// NewGetPaymentGatewayHandler returns the handler for
// GET /api/superadmin/paymentgateway. The key secret is never echoed.
func NewGetPaymentGatewayHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := dir.GetPaymentGateway(r.Context())
		if err != nil {
			writeStoreError(w, err, "Payment gateway not configured")
			return
		}
		response.JSON(w, settings)
	}
}

// NewSavePaymentGatewayHandler returns the handler for
// POST /api/superadmin/paymentgateway. Replaces the platform-global
// singleton.
func NewSavePaymentGatewayHandler(dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Provider  string `json:"provider"`
			KeyID     string `json:"key_id"`
			KeySecret string `json:"key_secret"`
			Enabled   *bool  `json:"enabled"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if !supportedGateways[req.Provider] {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "provider must be one of razorpay, stripe")
			return
		}
		if req.KeyID == "" || req.KeySecret == "" {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "key_id and key_secret are required")
			return
		}

		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}

		now := time.Now().UTC()
		settings := &models.PaymentGatewaySettings{
			ID:        uuid.New(),
			Provider:  req.Provider,
			KeyID:     req.KeyID,
			KeySecret: req.KeySecret,
			Enabled:   enabled,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := dir.SavePaymentGateway(r.Context(), settings); err != nil {
			writeStoreError(w, err, "Payment gateway not configured")
			return
		}
		response.Created(w, settings, "Payment gateway saved")
	}
}
