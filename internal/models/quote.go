package models

import "time"

// Quote statuses. A quote becomes synonymous with an order once it is priced
// and accepted; the record is reused, not duplicated.
const (
	QuoteStatusNew             = "new"
	QuoteStatusPendingPayment  = "pending-payment"
	QuoteStatusPendingApproval = "pending-approval"
	QuoteStatusQuoted          = "quoted"
	QuoteStatusAccepted        = "accepted"
	QuoteStatusApproved        = "approved"
	QuoteStatusDeclined        = "declined"
	QuoteStatusInProgress      = "in_progress"
	QuoteStatusPaid            = "paid"
	QuoteStatusComplete        = "complete"
)

// Payment status values carried on quotes and orders.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

type Quote struct {
	ID              int        `json:"id"`
	CustomerID      int        `json:"customer_id"`
	ProductType     string     `json:"product_type"`
	Quantity        string     `json:"quantity"`
	Description     string     `json:"description"`
	Turnaround      string     `json:"turnaround"`
	DeliveryMethod  string     `json:"delivery_method"`
	Price           *float64   `json:"price"`
	Status          string     `json:"status"`
	OrderNumber     *string    `json:"order_number"`
	PaymentURL      *string    `json:"payment_url"`
	InvoiceURL      *string    `json:"invoice_url"`
	PaymentStatus   string     `json:"payment_status"`
	SquarePaymentID *string    `json:"square_payment_id"`
	AdminNotes      string     `json:"admin_notes"`
	PortalToken     string     `json:"portal_token"`
	CreatedAt       time.Time  `json:"created_at"`
	ResponseSentAt  *time.Time `json:"response_sent_at"`
	AcceptedAt      *time.Time `json:"accepted_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// QuoteWithCustomer is the flattened quote+customer projection returned by
// the admin list and detail endpoints.
type QuoteWithCustomer struct {
	Quote
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	BusinessName  string `json:"business_name"`
}

// QuoteFilter narrows the admin quote list.
type QuoteFilter struct {
	Status string
	Limit  int
}

// PriceQuoteRequest is the admin request that prices a submitted quote.
type PriceQuoteRequest struct {
	Price      float64 `json:"price"`
	AdminNotes string  `json:"admin_notes"`
}

// PortalResponseRequest is the customer's accept/decline answer to a priced quote.
type PortalResponseRequest struct {
	Response string `json:"response"`
}
