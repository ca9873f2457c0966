package models

import "time"

// Order statuses track fulfillment, a different enum space than quote statuses.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusComplete   = "COMPLETE"
)

// Order is the derived fulfillment record created once a quote becomes active.
// Exactly one order exists per quote regardless of whether the admin accepted
// first or a payment webhook arrived first.
type Order struct {
	ID                 int        `json:"id"`
	OrderNumber        string     `json:"order_number"`
	CustomerID         int        `json:"customer_id"`
	QuoteID            int        `json:"quote_id"`
	ProjectDescription string     `json:"project_description"`
	Material           string     `json:"material"`
	Quantity           string     `json:"quantity"`
	Price              float64    `json:"price"`
	Status             string     `json:"status"`
	DeliveryMethod     string     `json:"delivery_method"`
	PaymentStatus      string     `json:"payment_status"`
	SquarePaymentID    *string    `json:"square_payment_id"`
	ReceiptSent        bool       `json:"receipt_sent"`
	ReceiptSentAt      *time.Time `json:"receipt_sent_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at"`
}
