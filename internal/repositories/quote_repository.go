package repositories

import (
	"context"
	"errors"
	"time"

	"engrave-backend/internal/models"
	"engrave-backend/internal/ordernum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuoteRepository struct {
	DB *pgxpool.Pool
}

func NewQuoteRepository(db *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{DB: db}
}

const quoteColumns = `q.id, q.customer_id, q.product_type, COALESCE(q.quantity, '') as quantity,
       q.description, COALESCE(q.turnaround, '') as turnaround, COALESCE(q.delivery_method, '') as delivery_method,
       q.price, q.status, q.order_number, q.payment_url, q.invoice_url,
       q.payment_status, q.square_payment_id, COALESCE(q.admin_notes, '') as admin_notes,
       q.portal_token, q.created_at, q.response_sent_at, q.accepted_at, q.completed_at`

func scanQuote(row interface{ Scan(...interface{}) error }) (*models.Quote, error) {
	var q models.Quote
	err := row.Scan(&q.ID, &q.CustomerID, &q.ProductType, &q.Quantity, &q.Description,
		&q.Turnaround, &q.DeliveryMethod, &q.Price, &q.Status, &q.OrderNumber,
		&q.PaymentURL, &q.InvoiceURL, &q.PaymentStatus, &q.SquarePaymentID,
		&q.AdminNotes, &q.PortalToken, &q.CreatedAt, &q.ResponseSentAt,
		&q.AcceptedAt, &q.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func scanQuoteWithCustomer(row interface{ Scan(...interface{}) error }) (*models.QuoteWithCustomer, error) {
	var q models.QuoteWithCustomer
	err := row.Scan(&q.ID, &q.CustomerID, &q.ProductType, &q.Quantity, &q.Description,
		&q.Turnaround, &q.DeliveryMethod, &q.Price, &q.Status, &q.OrderNumber,
		&q.PaymentURL, &q.InvoiceURL, &q.PaymentStatus, &q.SquarePaymentID,
		&q.AdminNotes, &q.PortalToken, &q.CreatedAt, &q.ResponseSentAt,
		&q.AcceptedAt, &q.CompletedAt,
		&q.CustomerName, &q.CustomerEmail, &q.CustomerPhone, &q.BusinessName)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

const quoteJoin = `
	FROM quotes q
	JOIN customers c ON c.id = q.customer_id`

const customerProjection = `,
       c.name, COALESCE(c.email, ''), c.phone, COALESCE(c.business_name, '')`

func (r *QuoteRepository) Create(ctx context.Context, q *models.Quote) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO quotes(customer_id, product_type, quantity, description, turnaround,
                delivery_method, price, status, order_number, payment_url, payment_status, portal_token)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         RETURNING id, created_at`,
		q.CustomerID, q.ProductType, q.Quantity, q.Description, q.Turnaround,
		q.DeliveryMethod, q.Price, q.Status, q.OrderNumber, q.PaymentURL,
		q.PaymentStatus, q.PortalToken,
	).Scan(&q.ID, &q.CreatedAt)
}

func (r *QuoteRepository) Get(ctx context.Context, id int) (*models.Quote, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+quoteColumns+quoteJoin+` WHERE q.id=$1`, id)
	return scanQuote(row)
}

func (r *QuoteRepository) GetWithCustomer(ctx context.Context, id int) (*models.QuoteWithCustomer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+quoteColumns+customerProjection+quoteJoin+` WHERE q.id=$1`, id)
	return scanQuoteWithCustomer(row)
}

// GetByOrderNumber resolves a quote from an order number extracted out of a
// payment note. Returns nil, nil when nothing matches so unmatched payments
// can still be recorded.
func (r *QuoteRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.QuoteWithCustomer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+quoteColumns+customerProjection+quoteJoin+` WHERE UPPER(q.order_number)=UPPER($1)`, orderNumber)
	q, err := scanQuoteWithCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuoteRepository) GetByPortalToken(ctx context.Context, token string) (*models.QuoteWithCustomer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+quoteColumns+customerProjection+quoteJoin+` WHERE q.portal_token=$1`, token)
	return scanQuoteWithCustomer(row)
}

// List returns flattened quote+customer projections, newest first.
func (r *QuoteRepository) List(ctx context.Context, filter *models.QuoteFilter) ([]*models.QuoteWithCustomer, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + quoteColumns + customerProjection + quoteJoin
	args := []interface{}{}
	if filter.Status != "" {
		query += ` WHERE q.status=$1 ORDER BY q.created_at DESC LIMIT $2`
		args = append(args, filter.Status, limit)
	} else {
		query += ` ORDER BY q.created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.QuoteWithCustomer
	for rows.Next() {
		q, err := scanQuoteWithCustomer(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// NextOrderNumber returns the next order number under the month/year prefix
// for t. The counter row is incremented atomically (one statement, no
// read-then-write window) and is seeded from the highest suffix already
// present in quotes or orders, so numbering continues from migrated data.
func (r *QuoteRepository) NextOrderNumber(ctx context.Context, t time.Time) (string, error) {
	prefix := ordernum.Prefix(t)

	var seq int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO order_counters (prefix, value)
         VALUES ($1, GREATEST(
             COALESCE((SELECT MAX(CAST(RIGHT(order_number, 4) AS INTEGER))
                       FROM quotes WHERE order_number LIKE $1 || '%'), 0),
             COALESCE((SELECT MAX(CAST(RIGHT(order_number, 4) AS INTEGER))
                       FROM orders WHERE order_number LIKE $1 || '%'), 0)) + 1)
         ON CONFLICT (prefix)
         DO UPDATE SET value = order_counters.value + 1
         RETURNING value`,
		prefix,
	).Scan(&seq)
	if err != nil {
		return "", err
	}

	return ordernum.Format(prefix, seq), nil
}

// UpdatePricing prices a submitted quote and stamps the response-sent time.
func (r *QuoteRepository) UpdatePricing(ctx context.Context, id int, price float64, adminNotes string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE quotes SET price=$1, admin_notes=$2, status=$3, response_sent_at=CURRENT_TIMESTAMP
         WHERE id=$4`,
		price, adminNotes, models.QuoteStatusQuoted, id)
	return err
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.Exec(ctx, `UPDATE quotes SET status=$1 WHERE id=$2`, status, id)
	return err
}

// MarkAccepted transitions a quote into production: status, accepted-at,
// order number, and the invoice URL when invoicing succeeded.
func (r *QuoteRepository) MarkAccepted(ctx context.Context, id int, orderNumber string, invoiceURL *string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE quotes SET status=$1, accepted_at=CURRENT_TIMESTAMP, order_number=$2, invoice_url=$3
         WHERE id=$4`,
		models.QuoteStatusInProgress, orderNumber, invoiceURL, id)
	return err
}

// MarkPaid records a reconciled payment against the quote.
func (r *QuoteRepository) MarkPaid(ctx context.Context, id int, squarePaymentID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE quotes SET payment_status=$1, status=$2, square_payment_id=$3 WHERE id=$4`,
		models.PaymentStatusPaid, models.QuoteStatusPaid, squarePaymentID, id)
	return err
}

// SetOrderNumber backfills an order number generated by the webhook path.
func (r *QuoteRepository) SetOrderNumber(ctx context.Context, id int, orderNumber string) error {
	_, err := r.DB.Exec(ctx, `UPDATE quotes SET order_number=$1 WHERE id=$2`, orderNumber, id)
	return err
}

func (r *QuoteRepository) MarkComplete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE quotes SET status=$1, completed_at=CURRENT_TIMESTAMP WHERE id=$2`,
		models.QuoteStatusComplete, id)
	return err
}
