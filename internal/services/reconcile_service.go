package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"engrave-backend/internal/email"
	"engrave-backend/internal/models"
	"engrave-backend/internal/ordernum"
	"engrave-backend/internal/square"
)

// Webhook response actions. The processor requires a 200 for every handled
// outcome; the action string tells the two apart in logs and tests.
const (
	ActionEventNotHandled = "event type not handled"
	ActionIgnored         = "ignored"
	ActionAlreadyDone     = "already processed"
	ActionUnmatched       = "payment recorded - no matching order"
	ActionProcessed       = "payment processed"
)

// ReconcileService consumes Square payment webhook events and reconciles them
// against quotes, orders, and receipts.
type ReconcileService struct {
	Quotes     QuoteStore
	Orders     OrderStore
	Payments   PaymentStore
	Receipts   ReceiptStore
	Customers  CustomerStore
	Email      email.Sender
	AdminEmail string
}

func NewReconcileService(quotes QuoteStore, orders OrderStore, payments PaymentStore,
	receipts ReceiptStore, customers CustomerStore, sender email.Sender, adminEmail string) *ReconcileService {
	return &ReconcileService{
		Quotes:     quotes,
		Orders:     orders,
		Payments:   payments,
		Receipts:   receipts,
		Customers:  customers,
		Email:      sender,
		AdminEmail: adminEmail,
	}
}

// ReconcileResult describes what the reconciler did with an event. Received
// is always true; the processor's webhook contract expects it in the 200 body.
type ReconcileResult struct {
	Received    bool   `json:"received"`
	Action      string `json:"action"`
	OrderNumber string `json:"orderNumber,omitempty"`
	PaymentID   int    `json:"paymentId,omitempty"`
}

// ProcessEvent reconciles one webhook event. Every write step is idempotent
// (payment keyed on the external id, order upserted on quote id, receipt
// keyed on payment id) so a partially applied delivery heals on redelivery.
func (s *ReconcileService) ProcessEvent(ctx context.Context, event *square.WebhookEvent) (*ReconcileResult, error) {
	if event.Type != "payment.created" && event.Type != "payment.updated" {
		return &ReconcileResult{Received: true, Action: ActionEventNotHandled}, nil
	}

	p := event.Payment
	if p == nil || p.ID == "" || p.Status != "COMPLETED" {
		return &ReconcileResult{Received: true, Action: ActionIgnored}, nil
	}

	// Idempotency gate: webhook delivery is at-least-once.
	existing, err := s.Payments.GetBySquarePaymentID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("payment lookup failed: %w", err)
	}
	if existing != nil {
		log.Printf("[Webhook] Payment %s already processed", p.ID)
		return &ReconcileResult{Received: true, Action: ActionAlreadyDone, PaymentID: existing.ID}, nil
	}

	orderNumber := ordernum.Extract(p.Note)
	var quote *models.QuoteWithCustomer
	if orderNumber != "" {
		quote, err = s.Quotes.GetByOrderNumber(ctx, orderNumber)
		if err != nil {
			return nil, fmt.Errorf("quote lookup failed: %w", err)
		}
	}

	if quote == nil {
		return s.recordUnmatched(ctx, p)
	}

	return s.recordMatched(ctx, p, quote)
}

// recordUnmatched stores the payment with an unknown-customer marker so money
// is never silently dropped, and flags it to the admin.
func (s *ReconcileService) recordUnmatched(ctx context.Context, p *square.WebhookPayment) (*ReconcileResult, error) {
	payment := &models.Payment{
		SquarePaymentID: p.ID,
		SquareOrderID:   p.OrderID,
		CustomerName:    "unknown",
		Amount:          p.Amount,
		Status:          p.Status,
		Note:            p.Note,
		PaidAt:          p.PaidAt,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("payment insert failed: %w", err)
	}

	log.Printf("[Webhook] Payment %s recorded with no matching order (note: %q)", p.ID, p.Note)

	if s.Email != nil && s.Email.Configured() && s.AdminEmail != "" {
		html := email.AdminUnmatchedPaymentHTML(p.ID, p.Note, p.Amount)
		if err := s.Email.Send(ctx, s.AdminEmail, "Unmatched Square payment", html); err != nil {
			log.Printf("[Email] Unmatched-payment notification failed: %v", err)
		}
	}

	return &ReconcileResult{Received: true, Action: ActionUnmatched, PaymentID: payment.ID}, nil
}

func (s *ReconcileService) recordMatched(ctx context.Context, p *square.WebhookPayment, quote *models.QuoteWithCustomer) (*ReconcileResult, error) {
	payment := &models.Payment{
		QuoteID:         &quote.ID,
		CustomerID:      &quote.CustomerID,
		SquarePaymentID: p.ID,
		SquareOrderID:   p.OrderID,
		CustomerName:    quote.CustomerName,
		Amount:          p.Amount,
		Status:          p.Status,
		Note:            p.Note,
		PaidAt:          p.PaidAt,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("payment insert failed: %w", err)
	}

	if err := s.Quotes.MarkPaid(ctx, quote.ID, p.ID); err != nil {
		return nil, fmt.Errorf("quote update failed: %w", err)
	}

	orderNumber := ""
	if quote.OrderNumber != nil {
		orderNumber = *quote.OrderNumber
	} else {
		var err error
		orderNumber, err = s.Quotes.NextOrderNumber(ctx, time.Now())
		if err != nil {
			return nil, fmt.Errorf("order number generation failed: %w", err)
		}
		if err := s.Quotes.SetOrderNumber(ctx, quote.ID, orderNumber); err != nil {
			return nil, fmt.Errorf("order number backfill failed: %w", err)
		}
	}

	price := p.Amount
	if quote.Price != nil {
		price = *quote.Price
	}

	squarePaymentID := p.ID
	order := &models.Order{
		OrderNumber:        orderNumber,
		CustomerID:         quote.CustomerID,
		QuoteID:            quote.ID,
		ProjectDescription: quote.Description,
		Material:           quote.ProductType,
		Quantity:           quote.Quantity,
		Price:              price,
		Status:             models.OrderStatusPending,
		DeliveryMethod:     quote.DeliveryMethod,
		PaymentStatus:      models.PaymentStatusPaid,
		SquarePaymentID:    &squarePaymentID,
	}
	if err := s.Orders.UpsertForQuote(ctx, order); err != nil {
		return nil, fmt.Errorf("order upsert failed: %w", err)
	}

	if err := s.Payments.SetOrderID(ctx, payment.ID, order.ID); err != nil {
		return nil, fmt.Errorf("payment backfill failed: %w", err)
	}

	receipt := &models.Receipt{
		OrderID:    order.ID,
		PaymentID:  payment.ID,
		CustomerID: quote.CustomerID,
		Amount:     p.Amount,
	}
	if err := s.Receipts.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("receipt insert failed: %w", err)
	}

	s.sendReceiptEmails(ctx, quote, order, receipt, p.Amount)

	log.Printf("[Webhook] Payment %s processed for order %s ($%.2f)", p.ID, orderNumber, p.Amount)

	return &ReconcileResult{Received: true, Action: ActionProcessed, OrderNumber: orderNumber, PaymentID: payment.ID}, nil
}

// sendReceiptEmails sends the customer receipt and the admin notification.
// Each is caught independently; neither blocks the other nor rolls anything
// back.
func (s *ReconcileService) sendReceiptEmails(ctx context.Context, quote *models.QuoteWithCustomer,
	order *models.Order, receipt *models.Receipt, amount float64) {
	if s.Email == nil || !s.Email.Configured() {
		return
	}

	if quote.CustomerEmail != "" {
		html := email.ReceiptHTML(quote.CustomerName, order.OrderNumber, receipt.ReceiptNumber, amount)
		subject := fmt.Sprintf("Receipt for order %s", order.OrderNumber)
		if err := s.Email.Send(ctx, quote.CustomerEmail, subject, html); err != nil {
			log.Printf("[Email] Receipt email failed for order %s: %v", order.OrderNumber, err)
		} else {
			if err := s.Receipts.MarkSent(ctx, receipt.ID); err != nil {
				log.Printf("[Webhook] Receipt sent-stamp failed for receipt %d: %v", receipt.ID, err)
			}
			if err := s.Orders.MarkReceiptSent(ctx, order.ID); err != nil {
				log.Printf("[Webhook] Order receipt-sent stamp failed for order %d: %v", order.ID, err)
			}
		}
	}

	if s.AdminEmail != "" {
		html := email.AdminPaymentHTML(order.OrderNumber, quote.CustomerName, amount)
		subject := fmt.Sprintf("Payment received for %s", order.OrderNumber)
		if err := s.Email.Send(ctx, s.AdminEmail, subject, html); err != nil {
			log.Printf("[Email] Admin payment notification failed for order %s: %v", order.OrderNumber, err)
		}
	}
}
