package services

import (
	"context"
	"time"

	"engrave-backend/internal/models"
	"engrave-backend/internal/square"
)

// Store interfaces narrow the repositories to what each service touches so
// the lifecycle logic can be exercised against in-memory fakes.

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Get(ctx context.Context, id int) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
}

type QuoteStore interface {
	Create(ctx context.Context, q *models.Quote) error
	Get(ctx context.Context, id int) (*models.Quote, error)
	GetWithCustomer(ctx context.Context, id int) (*models.QuoteWithCustomer, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.QuoteWithCustomer, error)
	GetByPortalToken(ctx context.Context, token string) (*models.QuoteWithCustomer, error)
	List(ctx context.Context, filter *models.QuoteFilter) ([]*models.QuoteWithCustomer, error)
	NextOrderNumber(ctx context.Context, t time.Time) (string, error)
	UpdatePricing(ctx context.Context, id int, price float64, adminNotes string) error
	UpdateStatus(ctx context.Context, id int, status string) error
	MarkAccepted(ctx context.Context, id int, orderNumber string, invoiceURL *string) error
	MarkPaid(ctx context.Context, id int, squarePaymentID string) error
	SetOrderNumber(ctx context.Context, id int, orderNumber string) error
	MarkComplete(ctx context.Context, id int) error
}

type OrderStore interface {
	UpsertForQuote(ctx context.Context, o *models.Order) error
	GetByQuoteID(ctx context.Context, quoteID int) (*models.Order, error)
	List(ctx context.Context, limit int) ([]*models.Order, error)
	MarkCompleteByQuote(ctx context.Context, quoteID int) error
	MarkReceiptSent(ctx context.Context, id int) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetBySquarePaymentID(ctx context.Context, squarePaymentID string) (*models.Payment, error)
	SetOrderID(ctx context.Context, id, orderID int) error
}

type ReceiptStore interface {
	Create(ctx context.Context, r *models.Receipt) error
	Get(ctx context.Context, id int) (*models.ReceiptWithDetails, error)
	List(ctx context.Context, limit int) ([]*models.ReceiptWithDetails, error)
	MarkSent(ctx context.Context, id int) error
}

type SiteConfigStore interface {
	Get(ctx context.Context, id string) (map[string]interface{}, error)
	Upsert(ctx context.Context, id string, data map[string]interface{}) error
}

// SquareAPI is the slice of the Square client the lifecycle services call.
type SquareAPI interface {
	Configured() bool
	FirstLocationID(ctx context.Context) (string, error)
	SearchCustomerByEmail(ctx context.Context, email string) (*square.Customer, error)
	CreateCustomer(ctx context.Context, name, email, phone string) (*square.Customer, error)
	CreateOrder(ctx context.Context, locationID, itemName string, amountCents int64) (string, error)
	CreateInvoice(ctx context.Context, locationID, squareOrderID, customerID, orderNumber string) (*square.Invoice, error)
	PublishInvoice(ctx context.Context, invoiceID string, version int) (*square.Invoice, error)
	SearchInvoiceByNumber(ctx context.Context, locationID, orderNumber string) (*square.Invoice, error)
	CreatePaymentLink(ctx context.Context, itemName string, amountCents int64, note string) (string, error)
}
