package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"engrave-backend/internal/models"
)

func newQuoteFixture(quotes *fakeQuotes, status string) *models.QuoteWithCustomer {
	return quotes.add(&models.QuoteWithCustomer{
		Quote: models.Quote{
			CustomerID:    1,
			ProductType:   "Pen",
			Description:   "Engraved pens",
			Status:        status,
			PaymentStatus: models.PaymentStatusUnpaid,
			PortalToken:   "tok-abc",
		},
		CustomerName:  "Pat Jones",
		CustomerEmail: "pat@example.com",
	})
}

func TestPriceQuote(t *testing.T) {
	quotes := newFakeQuotes()
	q := newQuoteFixture(quotes, models.QuoteStatusNew)
	sender := &fakeEmail{configured: true}
	svc := NewQuoteService(quotes, sender, "https://example.com")

	updated, err := svc.Price(context.Background(), q.ID, &models.PriceQuoteRequest{Price: 45.50, AdminNotes: "rush"})
	if err != nil {
		t.Fatalf("price failed: %v", err)
	}

	if updated.Status != models.QuoteStatusQuoted {
		t.Errorf("status = %q, want quoted", updated.Status)
	}
	if updated.Price == nil || *updated.Price != 45.50 {
		t.Errorf("price = %v", updated.Price)
	}
	if updated.ResponseSentAt == nil {
		t.Error("response timestamp not set")
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected quote-ready email, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].html, "https://example.com/quote/tok-abc") {
		t.Errorf("email should carry the portal link, got %q", sender.sent[0].html)
	}
}

func TestPriceQuoteGuards(t *testing.T) {
	quotes := newFakeQuotes()
	q := newQuoteFixture(quotes, models.QuoteStatusQuoted)
	svc := NewQuoteService(quotes, &fakeEmail{}, "https://example.com")

	t.Run("non-positive price", func(t *testing.T) {
		_, err := svc.Price(context.Background(), q.ID, &models.PriceQuoteRequest{Price: 0})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("already quoted", func(t *testing.T) {
		_, err := svc.Price(context.Background(), q.ID, &models.PriceQuoteRequest{Price: 10})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Price(context.Background(), 404, &models.PriceQuoteRequest{Price: 10})
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})
}

func TestPortalRespond(t *testing.T) {
	t.Run("accept parks at pending-approval", func(t *testing.T) {
		quotes := newFakeQuotes()
		newQuoteFixture(quotes, models.QuoteStatusQuoted)
		svc := NewQuoteService(quotes, &fakeEmail{}, "")

		updated, err := svc.PortalRespond(context.Background(), "tok-abc",
			&models.PortalResponseRequest{Response: "Accept"})
		if err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if updated.Status != models.QuoteStatusPendingApproval {
			t.Errorf("status = %q, want pending-approval", updated.Status)
		}
	})

	t.Run("decline", func(t *testing.T) {
		quotes := newFakeQuotes()
		newQuoteFixture(quotes, models.QuoteStatusQuoted)
		svc := NewQuoteService(quotes, &fakeEmail{}, "")

		updated, err := svc.PortalRespond(context.Background(), "tok-abc",
			&models.PortalResponseRequest{Response: "decline"})
		if err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if updated.Status != models.QuoteStatusDeclined {
			t.Errorf("status = %q, want declined", updated.Status)
		}
	})

	t.Run("invalid response value", func(t *testing.T) {
		quotes := newFakeQuotes()
		newQuoteFixture(quotes, models.QuoteStatusQuoted)
		svc := NewQuoteService(quotes, &fakeEmail{}, "")

		_, err := svc.PortalRespond(context.Background(), "tok-abc",
			&models.PortalResponseRequest{Response: "maybe"})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := NewQuoteService(newFakeQuotes(), &fakeEmail{}, "")
		_, err := svc.PortalRespond(context.Background(), "nope",
			&models.PortalResponseRequest{Response: "accept"})
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("unquoted quote rejects a response", func(t *testing.T) {
		quotes := newFakeQuotes()
		newQuoteFixture(quotes, models.QuoteStatusNew)
		svc := NewQuoteService(quotes, &fakeEmail{}, "")

		_, err := svc.PortalRespond(context.Background(), "tok-abc",
			&models.PortalResponseRequest{Response: "accept"})
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}
