// Package square is a thin client for the Square REST API covering the calls
// the order lifecycle needs: locations, customer search/create, orders,
// invoices, and payment links. All calls require a bearer credential; callers
// check Configured() and skip their sub-flow when it is absent.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://connect.squareup.com"

type Client struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

func NewClient(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests and for the Square sandbox.
func NewClientWithBaseURL(accessToken, baseURL string) *Client {
	c := NewClient(accessToken)
	c.baseURL = baseURL
	return c
}

// Configured reports whether a bearer credential is present. When it is not,
// invoicing and payment-link sub-flows are skipped entirely rather than
// failing the request.
func (c *Client) Configured() bool {
	return c.accessToken != ""
}

// Customer is the subset of a Square customer the lifecycle needs.
type Customer struct {
	ID    string
	Email string
}

// Invoice is the subset of a Square invoice the lifecycle needs.
type Invoice struct {
	ID            string
	Number        string
	PublicURL     string
	Status        string
	Version       int
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (map[string]interface{}, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("square API %s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	result := map[string]interface{}{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return result, nil
}

// FirstLocationID returns the merchant's first location, which invoices and
// orders must reference.
func (c *Client) FirstLocationID(ctx context.Context) (string, error) {
	result, err := c.do(ctx, http.MethodGet, "/v2/locations", nil)
	if err != nil {
		return "", err
	}

	locations, _ := result["locations"].([]interface{})
	if len(locations) == 0 {
		return "", fmt.Errorf("no locations on square account")
	}
	first, _ := locations[0].(map[string]interface{})
	id, _ := first["id"].(string)
	if id == "" {
		return "", fmt.Errorf("location missing id")
	}
	return id, nil
}

// SearchCustomerByEmail returns the first customer matching the email, or
// nil when none exists.
func (c *Client) SearchCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	payload := map[string]interface{}{
		"query": map[string]interface{}{
			"filter": map[string]interface{}{
				"email_address": map[string]interface{}{"exact": email},
			},
		},
	}

	result, err := c.do(ctx, http.MethodPost, "/v2/customers/search", payload)
	if err != nil {
		return nil, err
	}

	customers, _ := result["customers"].([]interface{})
	if len(customers) == 0 {
		return nil, nil
	}
	first, _ := customers[0].(map[string]interface{})
	id, _ := first["id"].(string)
	return &Customer{ID: id, Email: email}, nil
}

func (c *Client) CreateCustomer(ctx context.Context, name, email, phone string) (*Customer, error) {
	payload := map[string]interface{}{
		"given_name":    name,
		"email_address": email,
	}
	if phone != "" {
		payload["phone_number"] = phone
	}

	result, err := c.do(ctx, http.MethodPost, "/v2/customers", payload)
	if err != nil {
		return nil, err
	}

	customer, _ := result["customer"].(map[string]interface{})
	id, _ := customer["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("create customer response missing id")
	}
	return &Customer{ID: id, Email: email}, nil
}

// CreateOrder creates a Square order with one line item priced at amountCents.
func (c *Client) CreateOrder(ctx context.Context, locationID, itemName string, amountCents int64) (string, error) {
	payload := map[string]interface{}{
		"order": map[string]interface{}{
			"location_id": locationID,
			"line_items": []map[string]interface{}{
				{
					"name":     itemName,
					"quantity": "1",
					"base_price_money": map[string]interface{}{
						"amount":   amountCents,
						"currency": "USD",
					},
				},
			},
		},
	}

	result, err := c.do(ctx, http.MethodPost, "/v2/orders", payload)
	if err != nil {
		return "", err
	}

	order, _ := result["order"].(map[string]interface{})
	id, _ := order["id"].(string)
	if id == "" {
		return "", fmt.Errorf("create order response missing id")
	}
	return id, nil
}

// CreateInvoice drafts an invoice against an order for the given customer.
func (c *Client) CreateInvoice(ctx context.Context, locationID, squareOrderID, customerID, orderNumber string) (*Invoice, error) {
	dueDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	payload := map[string]interface{}{
		"invoice": map[string]interface{}{
			"location_id": locationID,
			"order_id":    squareOrderID,
			"primary_recipient": map[string]interface{}{
				"customer_id": customerID,
			},
			"payment_requests": []map[string]interface{}{
				{"request_type": "BALANCE", "due_date": dueDate},
			},
			"delivery_method": "EMAIL",
			"invoice_number":  orderNumber,
			"title":           fmt.Sprintf("Order %s", orderNumber),
		},
	}

	result, err := c.do(ctx, http.MethodPost, "/v2/invoices", payload)
	if err != nil {
		return nil, err
	}
	return invoiceFromResult(result)
}

// PublishInvoice transitions a draft invoice to published, which emails it to
// the customer and makes the public URL available.
func (c *Client) PublishInvoice(ctx context.Context, invoiceID string, version int) (*Invoice, error) {
	payload := map[string]interface{}{"version": version}

	result, err := c.do(ctx, http.MethodPost, "/v2/invoices/"+invoiceID+"/publish", payload)
	if err != nil {
		return nil, err
	}
	return invoiceFromResult(result)
}

// SearchInvoiceByNumber finds the invoice whose invoice number matches the
// order number, used by the completion handler's paid check.
func (c *Client) SearchInvoiceByNumber(ctx context.Context, locationID, orderNumber string) (*Invoice, error) {
	payload := map[string]interface{}{
		"query": map[string]interface{}{
			"filter": map[string]interface{}{
				"location_ids": []string{locationID},
			},
		},
		"limit": 100,
	}

	result, err := c.do(ctx, http.MethodPost, "/v2/invoices/search", payload)
	if err != nil {
		return nil, err
	}

	invoices, _ := result["invoices"].([]interface{})
	for _, entry := range invoices {
		inv, _ := entry.(map[string]interface{})
		if number, _ := inv["invoice_number"].(string); number == orderNumber {
			return parseInvoice(inv), nil
		}
	}
	return nil, nil
}

// CreatePaymentLink creates a hosted checkout link. The order number rides in
// the payment note so the webhook reconciler can resolve the quote later.
func (c *Client) CreatePaymentLink(ctx context.Context, itemName string, amountCents int64, note string) (string, error) {
	payload := map[string]interface{}{
		"quick_pay": map[string]interface{}{
			"name": itemName,
			"price_money": map[string]interface{}{
				"amount":   amountCents,
				"currency": "USD",
			},
			"location_id": "",
		},
		"payment_note": note,
	}

	// quick_pay requires a location; resolve it first
	locationID, err := c.FirstLocationID(ctx)
	if err != nil {
		return "", err
	}
	payload["quick_pay"].(map[string]interface{})["location_id"] = locationID

	result, err := c.do(ctx, http.MethodPost, "/v2/online-checkout/payment-links", payload)
	if err != nil {
		return "", err
	}

	link, _ := result["payment_link"].(map[string]interface{})
	url, _ := link["url"].(string)
	if url == "" {
		return "", fmt.Errorf("payment link response missing url")
	}
	return url, nil
}

func invoiceFromResult(result map[string]interface{}) (*Invoice, error) {
	raw, _ := result["invoice"].(map[string]interface{})
	if raw == nil {
		return nil, fmt.Errorf("response missing invoice")
	}
	return parseInvoice(raw), nil
}

func parseInvoice(raw map[string]interface{}) *Invoice {
	inv := &Invoice{}
	inv.ID, _ = raw["id"].(string)
	inv.Number, _ = raw["invoice_number"].(string)
	inv.PublicURL, _ = raw["public_url"].(string)
	inv.Status, _ = raw["status"].(string)
	if v, ok := raw["version"].(float64); ok {
		inv.Version = int(v)
	}
	return inv
}
