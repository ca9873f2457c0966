// Package email sends transactional mail through Resend. Mirrors the
// provider-interface shape used for the other outbound integrations so
// services can be tested against a fake sender.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendBaseURL = "https://api.resend.com"

// Sender is the interface services depend on.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
	Configured() bool
}

// ResendService implements Sender against the Resend REST API.
type ResendService struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

func NewResendService(apiKey, from string) *ResendService {
	return &ResendService{
		apiKey:  apiKey,
		from:    from,
		baseURL: resendBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewResendServiceWithBaseURL is used by tests.
func NewResendServiceWithBaseURL(apiKey, from, baseURL string) *ResendService {
	s := NewResendService(apiKey, from)
	s.baseURL = baseURL
	return s
}

// Configured reports whether an API key is present. Sends are skipped, not
// failed, when it is absent.
func (s *ResendService) Configured() bool {
	return s.apiKey != ""
}

func (s *ResendService) Send(ctx context.Context, to, subject, html string) error {
	if !s.Configured() {
		return fmt.Errorf("resend API key not configured")
	}

	payload := map[string]interface{}{
		"from":    s.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("resend API error: status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
