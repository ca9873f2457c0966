package models

import "time"

// Payment records a completed Square transaction. SquarePaymentID is the
// de-duplication key: webhook delivery is at-least-once, so the reconciler
// checks for an existing row before writing anything else.
type Payment struct {
	ID              int        `json:"id"`
	QuoteID         *int       `json:"quote_id"`
	CustomerID      *int       `json:"customer_id"`
	OrderID         *int       `json:"order_id"`
	SquarePaymentID string     `json:"square_payment_id"`
	SquareOrderID   string     `json:"square_order_id"`
	CustomerName    string     `json:"customer_name"`
	Amount          float64    `json:"amount"`
	Status          string     `json:"status"`
	Note            string     `json:"note"`
	PaidAt          *time.Time `json:"paid_at"`
	CreatedAt       time.Time  `json:"created_at"`
}
