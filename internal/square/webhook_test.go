package square

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func signBody(key, url string, body []byte) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(url))
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	key := "test-signature-key"
	url := "https://example.com/webhooks/square"
	body := []byte(`{"type":"payment.updated"}`)

	t.Run("valid signature", func(t *testing.T) {
		sig := signBody(key, url, body)
		if !VerifyWebhookSignature(key, url, body, sig) {
			t.Error("expected valid signature to verify")
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signBody(key, url, body)
		if VerifyWebhookSignature(key, url, []byte(`{"type":"evil"}`), sig) {
			t.Error("expected tampered body to fail verification")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		sig := signBody("other-key", url, body)
		if VerifyWebhookSignature(key, url, body, sig) {
			t.Error("expected signature with wrong key to fail")
		}
	})

	t.Run("empty key never verifies", func(t *testing.T) {
		if VerifyWebhookSignature("", url, body, "") {
			t.Error("expected empty key to fail verification")
		}
	})
}

func TestParseWebhookEvent(t *testing.T) {
	t.Run("payment updated", func(t *testing.T) {
		body := []byte(`{
			"type": "payment.updated",
			"data": {
				"object": {
					"payment": {
						"id": "PAY123",
						"order_id": "ORD456",
						"status": "COMPLETED",
						"note": "V-A260001 - John Smith",
						"amount_money": {"amount": 7500, "currency": "USD"},
						"updated_at": "2026-01-15T10:30:00Z"
					}
				}
			}
		}`)

		event, err := ParseWebhookEvent(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Type != "payment.updated" {
			t.Errorf("Type = %q, want payment.updated", event.Type)
		}
		if event.Payment == nil {
			t.Fatal("expected payment entity")
		}
		if event.Payment.ID != "PAY123" {
			t.Errorf("Payment.ID = %q", event.Payment.ID)
		}
		if event.Payment.Amount != 75.00 {
			t.Errorf("Payment.Amount = %v, want 75.00", event.Payment.Amount)
		}
		if event.Payment.Status != "COMPLETED" {
			t.Errorf("Payment.Status = %q", event.Payment.Status)
		}
		if event.Payment.PaidAt == nil {
			t.Error("expected PaidAt to be parsed")
		}
	})

	t.Run("non payment event", func(t *testing.T) {
		event, err := ParseWebhookEvent([]byte(`{"type":"invoice.published","data":{}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event.Type != "invoice.published" {
			t.Errorf("Type = %q", event.Type)
		}
		if event.Payment != nil {
			t.Error("expected nil payment for non-payment event")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := ParseWebhookEvent([]byte(`{`)); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}
