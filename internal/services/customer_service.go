package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"engrave-backend/internal/models"
)

// CustomerService covers the admin customer directory.
type CustomerService struct {
	Customers CustomerStore
}

func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{Customers: customers}
}

func (s *CustomerService) List(ctx context.Context) ([]*models.Customer, error) {
	return s.Customers.List(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id int) (*models.Customer, error) {
	c, err := s.Customers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %d", ErrValidation, id)
		}
		return nil, err
	}
	return c, nil
}

// Update applies the submitted fields to an existing customer. Blank fields
// are left unchanged.
func (s *CustomerService) Update(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		c.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(req.BusinessName); v != "" {
		c.BusinessName = v
	}

	if err := s.Customers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("customer update failed: %w", err)
	}
	return c, nil
}
