package repositories

import (
	"context"

	"engrave-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, order_number, customer_id, quote_id, project_description,
       COALESCE(material, '') as material, COALESCE(quantity, '') as quantity, price, status,
       COALESCE(delivery_method, '') as delivery_method, payment_status, square_payment_id,
       receipt_sent, receipt_sent_at, created_at, updated_at, completed_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.QuoteID, &o.ProjectDescription,
		&o.Material, &o.Quantity, &o.Price, &o.Status, &o.DeliveryMethod,
		&o.PaymentStatus, &o.SquarePaymentID, &o.ReceiptSent, &o.ReceiptSentAt,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpsertForQuote inserts the derived order row for a quote, or returns the
// existing one. quote_id carries a unique constraint so the acceptance flow
// and the payment webhook converge on a single row no matter which runs
// first; the second caller only refreshes payment fields.
func (r *OrderRepository) UpsertForQuote(ctx context.Context, o *models.Order) error {
	row := r.DB.QueryRow(ctx,
		`INSERT INTO orders(order_number, customer_id, quote_id, project_description, material,
                quantity, price, status, delivery_method, payment_status, square_payment_id)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
         ON CONFLICT (quote_id) DO UPDATE SET
             payment_status = CASE WHEN orders.payment_status = 'paid' OR EXCLUDED.payment_status = 'paid'
                                   THEN 'paid' ELSE orders.payment_status END,
             square_payment_id = COALESCE(EXCLUDED.square_payment_id, orders.square_payment_id),
             updated_at = CURRENT_TIMESTAMP
         RETURNING `+orderColumns,
		o.OrderNumber, o.CustomerID, o.QuoteID, o.ProjectDescription, o.Material,
		o.Quantity, o.Price, o.Status, o.DeliveryMethod, o.PaymentStatus, o.SquarePaymentID)

	saved, err := scanOrder(row)
	if err != nil {
		return err
	}
	*o = *saved
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	return scanOrder(row)
}

func (r *OrderRepository) GetByQuoteID(ctx context.Context, quoteID int) (*models.Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE quote_id=$1`, quoteID)
	return scanOrder(row)
}

func (r *OrderRepository) List(ctx context.Context, limit int) ([]*models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkCompleteByQuote completes the order derived from a quote. Matched by
// quote reference since callers hold the quote id, not the order id.
func (r *OrderRepository) MarkCompleteByQuote(ctx context.Context, quoteID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET status=$1, completed_at=CURRENT_TIMESTAMP, updated_at=CURRENT_TIMESTAMP
         WHERE quote_id=$2`,
		models.OrderStatusComplete, quoteID)
	return err
}

func (r *OrderRepository) MarkReceiptSent(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET receipt_sent=TRUE, receipt_sent_at=CURRENT_TIMESTAMP, updated_at=CURRENT_TIMESTAMP
         WHERE id=$1`, id)
	return err
}
