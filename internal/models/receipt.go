package models

import "time"

// Receipt is generated once per successful payment reconciliation. Immutable
// after creation except for the sent-at stamp.
type Receipt struct {
	ID            int        `json:"id"`
	ReceiptNumber string     `json:"receipt_number"`
	OrderID       int        `json:"order_id"`
	PaymentID     int        `json:"payment_id"`
	CustomerID    int        `json:"customer_id"`
	Amount        float64    `json:"amount"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ReceiptWithDetails includes customer and order context for the admin list
// and the PDF renderer.
type ReceiptWithDetails struct {
	Receipt
	OrderNumber   string `json:"order_number"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}
