package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"engrave-backend/internal/services"
)

const webhookURL = "https://engrave.example.com/api/webhooks/square"

func signBody(key string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(webhookURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// The reconciler never touches its stores for unhandled event types, so a
// zero-value service is enough to exercise the HTTP layer.
func newWebhookHandler(production bool) *WebhookHandler {
	return NewWebhookHandler(&services.ReconcileService{}, "sigkey", webhookURL, production)
}

func postWebhook(h *WebhookHandler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/square", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("x-square-hmacsha256-signature", signature)
	}
	rec := httptest.NewRecorder()
	h.HandleSquareWebhook(rec, req)
	return rec
}

func TestWebhookSkipsSignatureOutsideProduction(t *testing.T) {
	body := []byte(`{"type":"invoice.created","data":{}}`)

	rec := postWebhook(newWebhookHandler(false), body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result services.ReconcileResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if result.Action != services.ActionEventNotHandled {
		t.Errorf("action = %q", result.Action)
	}
	if !result.Received {
		t.Error("response body must carry received: true")
	}
}

func TestWebhookRejectsBadProductionSignature(t *testing.T) {
	body := []byte(`{"type":"invoice.created","data":{}}`)

	rec := postWebhook(newWebhookHandler(true), body, "not-a-real-signature")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWebhookAcceptsValidProductionSignature(t *testing.T) {
	body := []byte(`{"type":"invoice.created","data":{}}`)

	rec := postWebhook(newWebhookHandler(true), body, signBody("sigkey", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestWebhookRejectsUnparseablePayload(t *testing.T) {
	rec := postWebhook(newWebhookHandler(false), []byte("not json"), "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestWebhookLiveness(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/square", nil)
	rec := httptest.NewRecorder()
	newWebhookHandler(false).Liveness(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
