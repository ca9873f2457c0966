package repositories

import (
	"context"
	"errors"

	"engrave-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, COALESCE(email, '') as email, phone,
       COALESCE(business_name, '') as business_name, COALESCE(business_type, '') as business_type,
       COALESCE(address, '') as address, COALESCE(city, '') as city,
       COALESCE(state, '') as state, COALESCE(zip, '') as zip, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.BusinessName, &c.BusinessType,
		&c.Address, &c.City, &c.State, &c.Zip, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer keyed on phone. A concurrent intake for the same
// phone resolves to the existing row; its fields are not refreshed.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(name, email, phone, business_name, business_type, address, city, state, zip)
         VALUES($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)
         ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
         RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.BusinessName, c.BusinessType, c.Address, c.City, c.State, c.Zip,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
	return scanCustomer(row)
}

// GetByPhone looks a customer up by phone number, the intake identity key.
// Returns nil, nil when no customer matches.
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone=$1`, phone)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET name=$1, email=NULLIF($2, ''), phone=$3, business_name=$4,
                business_type=$5, address=$6, city=$7, state=$8, zip=$9, updated_at=CURRENT_TIMESTAMP
         WHERE id=$10`,
		c.Name, c.Email, c.Phone, c.BusinessName, c.BusinessType, c.Address, c.City, c.State, c.Zip, c.ID)
	return err
}
