package handlers

import (
	"io"
	"log"
	"net/http"

	"engrave-backend/internal/metrics"
	"engrave-backend/internal/services"
	"engrave-backend/internal/square"
	"engrave-backend/pkg/utils"
)

// WebhookHandler receives Square payment webhooks. Square retries on any
// non-200, so every handled outcome answers 200 with an action string; only
// signature failures and unreadable payloads are rejected.
type WebhookHandler struct {
	Reconciler   *services.ReconcileService
	SignatureKey string
	WebhookURL   string
	Production   bool
}

func NewWebhookHandler(reconciler *services.ReconcileService, signatureKey, webhookURL string, production bool) *WebhookHandler {
	return &WebhookHandler{
		Reconciler:   reconciler,
		SignatureKey: signatureKey,
		WebhookURL:   webhookURL,
		Production:   production,
	}
}

func (h *WebhookHandler) HandleSquareWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to read body")
		return
	}

	if h.Production {
		signature := r.Header.Get("x-square-hmacsha256-signature")
		if !square.VerifyWebhookSignature(h.SignatureKey, h.WebhookURL, body, signature) {
			log.Printf("[Webhook] Signature verification failed")
			utils.Error(w, http.StatusUnauthorized, "Invalid signature")
			return
		}
	} else {
		log.Printf("[Webhook] Signature verification skipped outside production")
	}

	event, err := square.ParseWebhookEvent(body)
	if err != nil {
		log.Printf("[Webhook] Unparseable payload: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Invalid payload")
		return
	}

	result, err := h.Reconciler.ProcessEvent(r.Context(), event)
	if err != nil {
		log.Printf("[Webhook] Reconciliation failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(result.Action).Inc()
	utils.JSON(w, http.StatusOK, result)
}

// Liveness answers Square's endpoint verification pings.
func (h *WebhookHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
