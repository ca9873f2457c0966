package repositories

import (
	"context"
	"errors"

	"engrave-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, quote_id, customer_id, order_id, square_payment_id, square_order_id,
       customer_name, amount, status, COALESCE(note, '') as note, paid_at, created_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.QuoteID, &p.CustomerID, &p.OrderID, &p.SquarePaymentID,
		&p.SquareOrderID, &p.CustomerName, &p.Amount, &p.Status, &p.Note,
		&p.PaidAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment. The unique constraint on square_payment_id is the
// idempotency backstop against concurrent duplicate webhook deliveries; the
// conflict clause makes a racing second insert a no-op rather than an error.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO payments(quote_id, customer_id, square_payment_id, square_order_id,
                customer_name, amount, status, note, paid_at)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
         ON CONFLICT (square_payment_id) DO UPDATE SET status = payments.status
         RETURNING id, created_at`,
		p.QuoteID, p.CustomerID, p.SquarePaymentID, p.SquareOrderID,
		p.CustomerName, p.Amount, p.Status, p.Note, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetBySquarePaymentID returns nil, nil when no payment matches, which the
// reconciler treats as "not yet processed".
func (r *PaymentRepository) GetBySquarePaymentID(ctx context.Context, squarePaymentID string) (*models.Payment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE square_payment_id=$1`, squarePaymentID)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SetOrderID backfills the order reference once the derived order exists.
func (r *PaymentRepository) SetOrderID(ctx context.Context, id, orderID int) error {
	_, err := r.DB.Exec(ctx, `UPDATE payments SET order_id=$1 WHERE id=$2`, orderID, id)
	return err
}

func (r *PaymentRepository) ListByQuote(ctx context.Context, quoteID int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE quote_id=$1 ORDER BY created_at DESC`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
