package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"engrave-backend/internal/models"
	"engrave-backend/internal/ordernum"
	"engrave-backend/internal/square"
)

// In-memory fakes for the store interfaces. Each test wires only the fakes
// its service touches.

type fakeCustomers struct {
	byPhone map[string]*models.Customer
	byID    map[int]*models.Customer
	created []*models.Customer
	nextID  int

	// staleLookup makes GetByPhone miss once even when the row exists,
	// modeling a racing insert between lookup and create.
	staleLookup bool
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{
		byPhone: make(map[string]*models.Customer),
		byID:    make(map[int]*models.Customer),
	}
}

func (f *fakeCustomers) add(c *models.Customer) *models.Customer {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	} else if c.ID > f.nextID {
		f.nextID = c.ID
	}
	f.byPhone[c.Phone] = c
	f.byID[c.ID] = c
	return c
}

// Create resolves phone conflicts to the existing row without refreshing it,
// matching the unique constraint on customers.phone.
func (f *fakeCustomers) Create(ctx context.Context, c *models.Customer) error {
	if existing, ok := f.byPhone[c.Phone]; ok {
		*c = *existing
		return nil
	}
	f.add(c)
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCustomers) Get(ctx context.Context, id int) (*models.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCustomers) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	if f.staleLookup {
		f.staleLookup = false
		return nil, nil
	}
	return f.byPhone[phone], nil
}

func (f *fakeCustomers) List(ctx context.Context) ([]*models.Customer, error) {
	var out []*models.Customer
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomers) Update(ctx context.Context, c *models.Customer) error {
	f.byID[c.ID] = c
	f.byPhone[c.Phone] = c
	return nil
}

type fakeQuotes struct {
	byID    map[int]*models.QuoteWithCustomer
	created []*models.Quote
	nextID  int
	seq     int
}

func newFakeQuotes() *fakeQuotes {
	return &fakeQuotes{byID: make(map[int]*models.QuoteWithCustomer)}
}

func (f *fakeQuotes) add(q *models.QuoteWithCustomer) *models.QuoteWithCustomer {
	if q.ID == 0 {
		f.nextID++
		q.ID = f.nextID
	} else if q.ID > f.nextID {
		f.nextID = q.ID
	}
	f.byID[q.ID] = q
	return q
}

func (f *fakeQuotes) Create(ctx context.Context, q *models.Quote) error {
	f.nextID++
	q.ID = f.nextID
	q.CreatedAt = time.Now()
	f.created = append(f.created, q)
	f.byID[q.ID] = &models.QuoteWithCustomer{Quote: *q}
	return nil
}

func (f *fakeQuotes) Get(ctx context.Context, id int) (*models.Quote, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &q.Quote, nil
}

func (f *fakeQuotes) GetWithCustomer(ctx context.Context, id int) (*models.QuoteWithCustomer, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return q, nil
}

func (f *fakeQuotes) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.QuoteWithCustomer, error) {
	for _, q := range f.byID {
		if q.OrderNumber != nil && *q.OrderNumber == orderNumber {
			return q, nil
		}
	}
	return nil, nil
}

func (f *fakeQuotes) GetByPortalToken(ctx context.Context, token string) (*models.QuoteWithCustomer, error) {
	for _, q := range f.byID {
		if q.PortalToken == token {
			return q, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeQuotes) List(ctx context.Context, filter *models.QuoteFilter) ([]*models.QuoteWithCustomer, error) {
	var out []*models.QuoteWithCustomer
	for _, q := range f.byID {
		if filter != nil && filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeQuotes) NextOrderNumber(ctx context.Context, t time.Time) (string, error) {
	f.seq++
	return ordernum.Format(ordernum.Prefix(t), f.seq), nil
}

func (f *fakeQuotes) UpdatePricing(ctx context.Context, id int, price float64, adminNotes string) error {
	q, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.Price = &price
	q.AdminNotes = adminNotes
	q.Status = models.QuoteStatusQuoted
	now := time.Now()
	q.ResponseSentAt = &now
	return nil
}

func (f *fakeQuotes) UpdateStatus(ctx context.Context, id int, status string) error {
	q, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.Status = status
	return nil
}

func (f *fakeQuotes) MarkAccepted(ctx context.Context, id int, orderNumber string, invoiceURL *string) error {
	q, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.Status = models.QuoteStatusInProgress
	q.OrderNumber = &orderNumber
	q.InvoiceURL = invoiceURL
	now := time.Now()
	q.AcceptedAt = &now
	return nil
}

func (f *fakeQuotes) MarkPaid(ctx context.Context, id int, squarePaymentID string) error {
	q, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.PaymentStatus = models.PaymentStatusPaid
	q.Status = models.QuoteStatusPaid
	q.SquarePaymentID = &squarePaymentID
	return nil
}

func (f *fakeQuotes) SetOrderNumber(ctx context.Context, id int, orderNumber string) error {
	q, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.OrderNumber = &orderNumber
	return nil
}

func (f *fakeQuotes) MarkComplete(ctx context.Context, id int) error {
	q, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.Status = models.QuoteStatusComplete
	now := time.Now()
	q.CompletedAt = &now
	return nil
}

type fakeOrders struct {
	byQuote map[int]*models.Order
	nextID  int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byQuote: make(map[int]*models.Order)}
}

func (f *fakeOrders) UpsertForQuote(ctx context.Context, o *models.Order) error {
	if existing, ok := f.byQuote[o.QuoteID]; ok {
		if o.PaymentStatus == models.PaymentStatusPaid {
			existing.PaymentStatus = models.PaymentStatusPaid
		}
		if o.SquarePaymentID != nil {
			existing.SquarePaymentID = o.SquarePaymentID
		}
		*o = *existing
		return nil
	}
	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = time.Now()
	stored := *o
	f.byQuote[o.QuoteID] = &stored
	return nil
}

func (f *fakeOrders) GetByQuoteID(ctx context.Context, quoteID int) (*models.Order, error) {
	o, ok := f.byQuote[quoteID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeOrders) List(ctx context.Context, limit int) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range f.byQuote {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) MarkCompleteByQuote(ctx context.Context, quoteID int) error {
	o, ok := f.byQuote[quoteID]
	if !ok {
		return nil
	}
	o.Status = models.OrderStatusComplete
	now := time.Now()
	o.CompletedAt = &now
	return nil
}

func (f *fakeOrders) MarkReceiptSent(ctx context.Context, id int) error {
	for _, o := range f.byQuote {
		if o.ID == id {
			o.ReceiptSent = true
			now := time.Now()
			o.ReceiptSentAt = &now
		}
	}
	return nil
}

type fakePayments struct {
	bySquareID map[string]*models.Payment
	nextID     int
}

func newFakePayments() *fakePayments {
	return &fakePayments{bySquareID: make(map[string]*models.Payment)}
}

func (f *fakePayments) Create(ctx context.Context, p *models.Payment) error {
	if existing, ok := f.bySquareID[p.SquarePaymentID]; ok {
		*p = *existing
		return nil
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	stored := *p
	f.bySquareID[p.SquarePaymentID] = &stored
	return nil
}

func (f *fakePayments) GetBySquarePaymentID(ctx context.Context, squarePaymentID string) (*models.Payment, error) {
	return f.bySquareID[squarePaymentID], nil
}

func (f *fakePayments) SetOrderID(ctx context.Context, id, orderID int) error {
	for _, p := range f.bySquareID {
		if p.ID == id {
			p.OrderID = &orderID
		}
	}
	return nil
}

type fakeReceipts struct {
	receipts []*models.Receipt
	sent     []int
	nextID   int
}

func (f *fakeReceipts) Create(ctx context.Context, r *models.Receipt) error {
	for _, existing := range f.receipts {
		if existing.PaymentID == r.PaymentID {
			*r = *existing
			return nil
		}
	}
	f.nextID++
	r.ID = f.nextID
	if r.ReceiptNumber == "" {
		r.ReceiptNumber = fmt.Sprintf("RCT-TEST-%04d", r.ID)
	}
	r.CreatedAt = time.Now()
	stored := *r
	f.receipts = append(f.receipts, &stored)
	return nil
}

func (f *fakeReceipts) Get(ctx context.Context, id int) (*models.ReceiptWithDetails, error) {
	for _, r := range f.receipts {
		if r.ID == id {
			return &models.ReceiptWithDetails{Receipt: *r}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeReceipts) List(ctx context.Context, limit int) ([]*models.ReceiptWithDetails, error) {
	var out []*models.ReceiptWithDetails
	for _, r := range f.receipts {
		out = append(out, &models.ReceiptWithDetails{Receipt: *r})
	}
	return out, nil
}

func (f *fakeReceipts) MarkSent(ctx context.Context, id int) error {
	f.sent = append(f.sent, id)
	return nil
}

type fakeSiteConfig struct {
	data map[string]interface{}
}

func (f *fakeSiteConfig) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	return f.data, nil
}

func (f *fakeSiteConfig) Upsert(ctx context.Context, id string, data map[string]interface{}) error {
	f.data = data
	return nil
}

// fakeSquare records calls and can be configured to fail any step.
type fakeSquare struct {
	configured bool

	locationErr error
	customer    *square.Customer
	invoice     *square.Invoice
	invoiceErr  error
	publishErr  error
	searched    *square.Invoice
	searchErr   error

	paymentLinkURL string
	paymentLinkErr error
	paymentNotes   []string
}

func (f *fakeSquare) Configured() bool { return f.configured }

func (f *fakeSquare) FirstLocationID(ctx context.Context) (string, error) {
	if f.locationErr != nil {
		return "", f.locationErr
	}
	return "LOC1", nil
}

func (f *fakeSquare) SearchCustomerByEmail(ctx context.Context, email string) (*square.Customer, error) {
	return f.customer, nil
}

func (f *fakeSquare) CreateCustomer(ctx context.Context, name, email, phone string) (*square.Customer, error) {
	return &square.Customer{ID: "CUST1"}, nil
}

func (f *fakeSquare) CreateOrder(ctx context.Context, locationID, itemName string, amountCents int64) (string, error) {
	return "SQORDER1", nil
}

func (f *fakeSquare) CreateInvoice(ctx context.Context, locationID, squareOrderID, customerID, orderNumber string) (*square.Invoice, error) {
	if f.invoiceErr != nil {
		return nil, f.invoiceErr
	}
	if f.invoice != nil {
		return f.invoice, nil
	}
	return &square.Invoice{ID: "INV1", Number: orderNumber, Version: 1}, nil
}

func (f *fakeSquare) PublishInvoice(ctx context.Context, invoiceID string, version int) (*square.Invoice, error) {
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &square.Invoice{ID: invoiceID, Number: "V-A260001", PublicURL: "https://squareup.com/pay/INV1", Status: "UNPAID"}, nil
}

func (f *fakeSquare) SearchInvoiceByNumber(ctx context.Context, locationID, orderNumber string) (*square.Invoice, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searched, nil
}

func (f *fakeSquare) CreatePaymentLink(ctx context.Context, itemName string, amountCents int64, note string) (string, error) {
	f.paymentNotes = append(f.paymentNotes, note)
	if f.paymentLinkErr != nil {
		return "", f.paymentLinkErr
	}
	if f.paymentLinkURL != "" {
		return f.paymentLinkURL, nil
	}
	return "https://square.link/u/test", nil
}

type sentEmail struct {
	to      string
	subject string
	html    string
}

type fakeEmail struct {
	configured bool
	sendErr    error
	sent       []sentEmail
}

func (f *fakeEmail) Configured() bool { return f.configured }

func (f *fakeEmail) Send(ctx context.Context, to, subject, html string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: html})
	return nil
}

var errBoom = errors.New("boom")
