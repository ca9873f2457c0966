package repositories

import (
	"context"
	"fmt"
	"math/rand"

	"engrave-backend/internal/models"
	"engrave-backend/internal/timeutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReceiptRepository struct {
	DB *pgxpool.Pool
}

func NewReceiptRepository(db *pgxpool.Pool) *ReceiptRepository {
	return &ReceiptRepository{DB: db}
}

// GenerateReceiptNumber builds a receipt number from the business date plus a
// random suffix, e.g. RCT-20260828-4821.
func GenerateReceiptNumber() string {
	return fmt.Sprintf("RCT-%s-%04d", timeutil.Now().Format(timeutil.CompactDateLayout), rand.Intn(10000))
}

// Create inserts a receipt. payment_id is unique so a replayed reconciliation
// cannot produce a second receipt for the same payment.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ReceiptNumber == "" {
		receipt.ReceiptNumber = GenerateReceiptNumber()
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO receipts(receipt_number, order_id, payment_id, customer_id, amount)
         VALUES($1, $2, $3, $4, $5)
         ON CONFLICT (payment_id) DO UPDATE SET amount = receipts.amount
         RETURNING id, receipt_number, created_at`,
		receipt.ReceiptNumber, receipt.OrderID, receipt.PaymentID, receipt.CustomerID, receipt.Amount,
	).Scan(&receipt.ID, &receipt.ReceiptNumber, &receipt.CreatedAt)
}

const receiptDetailColumns = `r.id, r.receipt_number, r.order_id, r.payment_id, r.customer_id,
       r.amount, r.sent_at, r.created_at, o.order_number, c.name, COALESCE(c.email, '')`

const receiptDetailJoin = `
	FROM receipts r
	JOIN orders o ON o.id = r.order_id
	JOIN customers c ON c.id = r.customer_id`

func scanReceiptDetails(row interface{ Scan(...interface{}) error }) (*models.ReceiptWithDetails, error) {
	var rec models.ReceiptWithDetails
	err := row.Scan(&rec.ID, &rec.ReceiptNumber, &rec.OrderID, &rec.PaymentID, &rec.CustomerID,
		&rec.Amount, &rec.SentAt, &rec.CreatedAt, &rec.OrderNumber, &rec.CustomerName, &rec.CustomerEmail)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ReceiptRepository) Get(ctx context.Context, id int) (*models.ReceiptWithDetails, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+receiptDetailColumns+receiptDetailJoin+` WHERE r.id=$1`, id)
	return scanReceiptDetails(row)
}

func (r *ReceiptRepository) List(ctx context.Context, limit int) ([]*models.ReceiptWithDetails, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+receiptDetailColumns+receiptDetailJoin+` ORDER BY r.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.ReceiptWithDetails
	for rows.Next() {
		rec, err := scanReceiptDetails(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}

func (r *ReceiptRepository) MarkSent(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `UPDATE receipts SET sent_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}
