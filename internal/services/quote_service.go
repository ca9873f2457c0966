package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"engrave-backend/internal/email"
	"engrave-backend/internal/models"
)

// QuoteService covers the admin quote workflow up to acceptance, plus the
// customer-facing portal.
type QuoteService struct {
	Quotes        QuoteStore
	Email         email.Sender
	PortalBaseURL string
}

func NewQuoteService(quotes QuoteStore, sender email.Sender, portalBaseURL string) *QuoteService {
	return &QuoteService{Quotes: quotes, Email: sender, PortalBaseURL: portalBaseURL}
}

func (s *QuoteService) List(ctx context.Context, filter *models.QuoteFilter) ([]*models.QuoteWithCustomer, error) {
	return s.Quotes.List(ctx, filter)
}

func (s *QuoteService) Get(ctx context.Context, id int) (*models.QuoteWithCustomer, error) {
	q, err := s.Quotes.GetWithCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return q, nil
}

// Price sets the admin's price on a new quote, moves it to quoted, and emails
// the customer a portal link to respond.
func (s *QuoteService) Price(ctx context.Context, id int, req *models.PriceQuoteRequest) (*models.QuoteWithCustomer, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != models.QuoteStatusNew {
		return nil, fmt.Errorf("%w: quote %d is %s, only new quotes can be priced", ErrInvalidState, id, q.Status)
	}

	if err := s.Quotes.UpdatePricing(ctx, id, req.Price, req.AdminNotes); err != nil {
		return nil, fmt.Errorf("pricing update failed: %w", err)
	}

	if s.Email != nil && s.Email.Configured() && q.CustomerEmail != "" {
		portalURL := s.portalURL(q.PortalToken)
		html := email.QuoteReadyHTML(q.CustomerName, q.ProductType, req.Price, portalURL)
		if err := s.Email.Send(ctx, q.CustomerEmail, "Your engraving quote is ready", html); err != nil {
			log.Printf("[Email] Quote-ready email failed for quote %d: %v", id, err)
		}
	}

	return s.Get(ctx, id)
}

// PortalGet resolves a quote by its portal token for the customer-facing view.
func (s *QuoteService) PortalGet(ctx context.Context, token string) (*models.QuoteWithCustomer, error) {
	q, err := s.Quotes.GetByPortalToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return q, nil
}

// PortalRespond records the customer's accept or decline answer to a priced
// quote. Accepting parks the quote at pending-approval for the admin.
func (s *QuoteService) PortalRespond(ctx context.Context, token string, req *models.PortalResponseRequest) (*models.QuoteWithCustomer, error) {
	response := strings.ToLower(strings.TrimSpace(req.Response))
	if response != "accept" && response != "decline" {
		return nil, fmt.Errorf("%w: response must be accept or decline", ErrValidation)
	}

	q, err := s.PortalGet(ctx, token)
	if err != nil {
		return nil, err
	}
	if q.Status != models.QuoteStatusQuoted {
		return nil, fmt.Errorf("%w: quote %d is %s, only quoted quotes accept a response", ErrInvalidState, q.ID, q.Status)
	}

	status := models.QuoteStatusDeclined
	if response == "accept" {
		status = models.QuoteStatusPendingApproval
	}
	if err := s.Quotes.UpdateStatus(ctx, q.ID, status); err != nil {
		return nil, fmt.Errorf("status update failed: %w", err)
	}

	return s.PortalGet(ctx, token)
}

func (s *QuoteService) portalURL(token string) string {
	base := strings.TrimRight(s.PortalBaseURL, "/")
	return fmt.Sprintf("%s/quote/%s", base, token)
}
