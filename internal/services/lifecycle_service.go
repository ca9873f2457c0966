package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"engrave-backend/internal/email"
	"engrave-backend/internal/models"
	"github.com/jackc/pgx/v5"
)

// LifecycleService drives the admin-triggered quote transitions: acceptance
// into production (with Square invoicing) and completion.
type LifecycleService struct {
	Quotes    QuoteStore
	Orders    OrderStore
	Customers CustomerStore
	Square    SquareAPI
	Email     email.Sender
}

func NewLifecycleService(quotes QuoteStore, orders OrderStore, customers CustomerStore, sq SquareAPI, sender email.Sender) *LifecycleService {
	return &LifecycleService{Quotes: quotes, Orders: orders, Customers: customers, Square: sq, Email: sender}
}

// AcceptResult is the acceptance response projection.
type AcceptResult struct {
	Quote         *models.QuoteWithCustomer `json:"quote"`
	OrderNumber   string                    `json:"orderNumber"`
	InvoiceURL    *string                   `json:"invoiceUrl"`
	InvoiceNumber string                    `json:"invoiceNumber"`
	Message       string                    `json:"message"`
}

// Accept transitions a quote from pending-approval to in_progress: it
// generates (or reuses) an order number, runs the Square invoicing sub-flow,
// emails the customer, and creates the derived order row. Invoicing and email
// failures degrade; the status transition always commits.
func (s *LifecycleService) Accept(ctx context.Context, quoteID int) (*AcceptResult, error) {
	q, err := s.Quotes.GetWithCustomer(ctx, quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quote lookup failed: %w", err)
	}

	if q.Status != models.QuoteStatusPendingApproval {
		return nil, fmt.Errorf("%w: expected %s, have %s", ErrInvalidState, models.QuoteStatusPendingApproval, q.Status)
	}
	if q.Price == nil {
		return nil, ErrMissingPrice
	}
	if q.CustomerEmail == "" {
		return nil, ErrMissingEmail
	}

	// Direct-payment-link orders already carry a number; invoice-based quotes
	// get theirs here.
	orderNumber := ""
	if q.OrderNumber != nil {
		orderNumber = *q.OrderNumber
	} else {
		orderNumber, err = s.Quotes.NextOrderNumber(ctx, time.Now())
		if err != nil {
			return nil, fmt.Errorf("order number generation failed: %w", err)
		}
	}

	invoice := s.createInvoice(ctx, q, orderNumber)

	var invoiceURL *string
	invoiceNumber := ""
	if invoice != nil {
		invoiceNumber = invoice.Number
		if invoice.PublicURL != "" {
			invoiceURL = &invoice.PublicURL
		}
	}

	if err := s.Quotes.MarkAccepted(ctx, quoteID, orderNumber, invoiceURL); err != nil {
		return nil, fmt.Errorf("quote update failed: %w", err)
	}

	order := &models.Order{
		OrderNumber:        orderNumber,
		CustomerID:         q.CustomerID,
		QuoteID:            q.ID,
		ProjectDescription: q.Description,
		Material:           q.ProductType,
		Quantity:           q.Quantity,
		Price:              *q.Price,
		Status:             models.OrderStatusInProgress,
		DeliveryMethod:     q.DeliveryMethod,
		PaymentStatus:      models.PaymentStatusUnpaid,
	}
	if err := s.Orders.UpsertForQuote(ctx, order); err != nil {
		return nil, fmt.Errorf("order create failed: %w", err)
	}

	s.sendAcceptanceEmail(ctx, q, orderNumber, invoiceURL)

	updated, err := s.Quotes.GetWithCustomer(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("quote reload failed: %w", err)
	}

	message := "Quote accepted and invoice sent to customer"
	if invoiceURL == nil {
		message = "Quote accepted; invoice could not be created"
	}

	return &AcceptResult{
		Quote:         updated,
		OrderNumber:   orderNumber,
		InvoiceURL:    invoiceURL,
		InvoiceNumber: invoiceNumber,
		Message:       message,
	}, nil
}

// createInvoice runs the Square sub-flow: location -> customer search/create
// -> order -> invoice -> publish. Any failure aborts only this sub-flow.
func (s *LifecycleService) createInvoice(ctx context.Context, q *models.QuoteWithCustomer, orderNumber string) *invoiceInfo {
	if s.Square == nil || !s.Square.Configured() {
		log.Printf("[Square] Credentials not configured, skipping invoice for quote %d", q.ID)
		return nil
	}

	locationID, err := s.Square.FirstLocationID(ctx)
	if err != nil {
		log.Printf("[Square] Location lookup failed for quote %d: %v", q.ID, err)
		return nil
	}

	customer, err := s.Square.SearchCustomerByEmail(ctx, q.CustomerEmail)
	if err != nil {
		log.Printf("[Square] Customer search failed for quote %d: %v", q.ID, err)
		return nil
	}
	if customer == nil {
		customer, err = s.Square.CreateCustomer(ctx, q.CustomerName, q.CustomerEmail, q.CustomerPhone)
		if err != nil {
			log.Printf("[Square] Customer create failed for quote %d: %v", q.ID, err)
			return nil
		}
	}

	itemName := fmt.Sprintf("Order %s - %s", orderNumber, q.ProductType)
	squareOrderID, err := s.Square.CreateOrder(ctx, locationID, itemName, toCents(*q.Price))
	if err != nil {
		log.Printf("[Square] Order create failed for quote %d: %v", q.ID, err)
		return nil
	}

	invoice, err := s.Square.CreateInvoice(ctx, locationID, squareOrderID, customer.ID, orderNumber)
	if err != nil {
		log.Printf("[Square] Invoice create failed for quote %d: %v", q.ID, err)
		return nil
	}

	published, err := s.Square.PublishInvoice(ctx, invoice.ID, invoice.Version)
	if err != nil {
		log.Printf("[Square] Invoice publish failed for quote %d: %v", q.ID, err)
		return nil
	}

	return &invoiceInfo{Number: published.Number, PublicURL: published.PublicURL}
}

type invoiceInfo struct {
	Number    string
	PublicURL string
}

func (s *LifecycleService) sendAcceptanceEmail(ctx context.Context, q *models.QuoteWithCustomer, orderNumber string, invoiceURL *string) {
	if s.Email == nil || !s.Email.Configured() || q.CustomerEmail == "" {
		return
	}

	subject := fmt.Sprintf("Your order %s is in progress", orderNumber)
	var html string
	if invoiceURL != nil {
		html = email.InvoiceHTML(q.CustomerName, orderNumber, *invoiceURL, *q.Price)
	} else {
		html = email.AcceptedNoInvoiceHTML(q.CustomerName, orderNumber)
	}

	if err := s.Email.Send(ctx, q.CustomerEmail, subject, html); err != nil {
		log.Printf("[Email] Acceptance email failed for quote %d: %v", q.ID, err)
	}
}

// CompleteResult is the completion response projection.
type CompleteResult struct {
	Quote       *models.QuoteWithCustomer `json:"quote"`
	InvoicePaid bool                      `json:"invoicePaid"`
	Message     string                    `json:"message"`
}

// Complete transitions a quote from in_progress to complete. The remote
// invoice-paid check is best effort; its failure means "not confirmed paid".
func (s *LifecycleService) Complete(ctx context.Context, quoteID int) (*CompleteResult, error) {
	q, err := s.Quotes.GetWithCustomer(ctx, quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quote lookup failed: %w", err)
	}

	if q.Status != models.QuoteStatusInProgress {
		return nil, fmt.Errorf("%w: expected %s, have %s", ErrInvalidState, models.QuoteStatusInProgress, q.Status)
	}

	invoicePaid := q.PaymentStatus == models.PaymentStatusPaid
	if !invoicePaid {
		invoicePaid = s.checkInvoicePaid(ctx, q)
	}

	if err := s.Quotes.MarkComplete(ctx, quoteID); err != nil {
		return nil, fmt.Errorf("quote update failed: %w", err)
	}
	if err := s.Orders.MarkCompleteByQuote(ctx, quoteID); err != nil {
		return nil, fmt.Errorf("order update failed: %w", err)
	}

	s.sendCompletionEmail(ctx, q, invoicePaid)

	updated, err := s.Quotes.GetWithCustomer(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("quote reload failed: %w", err)
	}

	message := "Order completed"
	if !invoicePaid {
		message = "Order completed; payment not yet confirmed"
	}

	return &CompleteResult{Quote: updated, InvoicePaid: invoicePaid, Message: message}, nil
}

func (s *LifecycleService) checkInvoicePaid(ctx context.Context, q *models.QuoteWithCustomer) bool {
	if s.Square == nil || !s.Square.Configured() || q.OrderNumber == nil {
		return false
	}

	locationID, err := s.Square.FirstLocationID(ctx)
	if err != nil {
		log.Printf("[Square] Location lookup failed during completion of quote %d: %v", q.ID, err)
		return false
	}

	invoice, err := s.Square.SearchInvoiceByNumber(ctx, locationID, *q.OrderNumber)
	if err != nil {
		log.Printf("[Square] Invoice search failed during completion of quote %d: %v", q.ID, err)
		return false
	}

	return invoice != nil && invoice.Status == "PAID"
}

func (s *LifecycleService) sendCompletionEmail(ctx context.Context, q *models.QuoteWithCustomer, invoicePaid bool) {
	if s.Email == nil || !s.Email.Configured() || q.CustomerEmail == "" {
		return
	}

	orderNumber := ""
	if q.OrderNumber != nil {
		orderNumber = *q.OrderNumber
	}

	subject := fmt.Sprintf("Your order %s is complete", orderNumber)
	var html string
	if invoicePaid {
		html = email.CompletionPaidHTML(q.CustomerName, orderNumber)
	} else {
		invoiceURL := ""
		if q.InvoiceURL != nil {
			invoiceURL = *q.InvoiceURL
		}
		html = email.CompletionReminderHTML(q.CustomerName, orderNumber, invoiceURL)
	}

	if err := s.Email.Send(ctx, q.CustomerEmail, subject, html); err != nil {
		log.Printf("[Email] Completion email failed for quote %d: %v", q.ID, err)
	}
}
