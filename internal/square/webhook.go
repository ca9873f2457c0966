package square

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"
)

// VerifyWebhookSignature checks the x-square-hmacsha256-signature header:
// base64(HMAC-SHA256(signature key, notification URL + raw body)).
func VerifyWebhookSignature(signatureKey, notificationURL string, body []byte, signature string) bool {
	if signatureKey == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(signatureKey))
	h.Write([]byte(notificationURL))
	h.Write(body)
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookPayment is the payment entity carried by payment.created /
// payment.updated webhook events, reduced to the fields reconciliation needs.
type WebhookPayment struct {
	ID      string
	OrderID string
	Status  string
	Amount  float64
	Note    string
	PaidAt  *time.Time
}

// WebhookEvent is a parsed Square webhook envelope.
type WebhookEvent struct {
	Type    string
	Payment *WebhookPayment
}

// ParseWebhookEvent extracts the event type and, for payment events, the
// embedded payment entity. Unknown shapes yield an event with a nil Payment
// rather than an error; the reconciler ignores those.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	event := &WebhookEvent{}
	event.Type, _ = payload["type"].(string)

	data, _ := payload["data"].(map[string]interface{})
	object, _ := data["object"].(map[string]interface{})
	entity, _ := object["payment"].(map[string]interface{})
	if entity == nil {
		return event, nil
	}

	payment := &WebhookPayment{}
	payment.ID, _ = entity["id"].(string)
	payment.OrderID, _ = entity["order_id"].(string)
	payment.Status, _ = entity["status"].(string)
	payment.Note, _ = entity["note"].(string)

	if amountMoney, ok := entity["amount_money"].(map[string]interface{}); ok {
		if cents, ok := amountMoney["amount"].(float64); ok {
			payment.Amount = cents / 100
		}
	}

	if updated, ok := entity["updated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			payment.PaidAt = &t
		}
	}

	event.Payment = payment
	return event, nil
}
