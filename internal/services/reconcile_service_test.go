package services

import (
	"context"
	"testing"
	"time"

	"engrave-backend/internal/models"
	"engrave-backend/internal/square"
)

func paymentEvent(id, note string, amount float64) *square.WebhookEvent {
	now := time.Now()
	return &square.WebhookEvent{
		Type: "payment.updated",
		Payment: &square.WebhookPayment{
			ID:     id,
			Status: "COMPLETED",
			Amount: amount,
			Note:   note,
			PaidAt: &now,
		},
	}
}

func newReconciler(quotes *fakeQuotes, orders *fakeOrders, payments *fakePayments,
	receipts *fakeReceipts, sender *fakeEmail) *ReconcileService {
	return NewReconcileService(quotes, orders, payments, receipts, newFakeCustomers(), sender, "admin@example.com")
}

func TestProcessEventIgnoresIrrelevant(t *testing.T) {
	svc := newReconciler(newFakeQuotes(), newFakeOrders(), newFakePayments(), &fakeReceipts{}, &fakeEmail{})

	t.Run("unhandled event type", func(t *testing.T) {
		result, err := svc.ProcessEvent(context.Background(), &square.WebhookEvent{Type: "invoice.published"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Action != ActionEventNotHandled {
			t.Errorf("action = %q", result.Action)
		}
	})

	t.Run("incomplete payment", func(t *testing.T) {
		event := paymentEvent("PAY1", "", 10)
		event.Payment.Status = "PENDING"
		result, err := svc.ProcessEvent(context.Background(), event)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Action != ActionIgnored {
			t.Errorf("action = %q", result.Action)
		}
	})

	t.Run("missing payment entity", func(t *testing.T) {
		result, err := svc.ProcessEvent(context.Background(), &square.WebhookEvent{Type: "payment.created"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Action != ActionIgnored {
			t.Errorf("action = %q", result.Action)
		}
	})
}

func TestProcessEventMatchedPayment(t *testing.T) {
	quotes := newFakeQuotes()
	orders := newFakeOrders()
	payments := newFakePayments()
	receipts := &fakeReceipts{}
	sender := &fakeEmail{configured: true}

	price := 75.0
	num := "V-A260001"
	q := quotes.add(&models.QuoteWithCustomer{
		Quote: models.Quote{
			CustomerID:    7,
			ProductType:   "Tumbler",
			Description:   "Logo tumblers",
			Price:         &price,
			Status:        models.QuoteStatusPendingPayment,
			PaymentStatus: models.PaymentStatusUnpaid,
			OrderNumber:   &num,
			PortalToken:   "tok",
		},
		CustomerName:  "Pat Jones",
		CustomerEmail: "pat@example.com",
	})

	svc := newReconciler(quotes, orders, payments, receipts, sender)

	result, err := svc.ProcessEvent(context.Background(), paymentEvent("PAY1", "V-A260001 - Pat Jones", 75.00))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Action != ActionProcessed {
		t.Fatalf("action = %q", result.Action)
	}
	if !result.Received {
		t.Error("received flag not set")
	}
	if result.OrderNumber != num {
		t.Errorf("order number = %q", result.OrderNumber)
	}

	if q.PaymentStatus != models.PaymentStatusPaid || q.Status != models.QuoteStatusPaid {
		t.Errorf("quote not marked paid: %+v", q.Quote)
	}

	order, err := orders.GetByQuoteID(context.Background(), q.ID)
	if err != nil {
		t.Fatalf("order missing: %v", err)
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("order payment status = %q", order.PaymentStatus)
	}

	payment, _ := payments.GetBySquarePaymentID(context.Background(), "PAY1")
	if payment == nil || payment.Amount != 75.00 || payment.CustomerName != "Pat Jones" {
		t.Errorf("payment = %+v", payment)
	}
	if payment.OrderID == nil || *payment.OrderID != order.ID {
		t.Errorf("payment not linked to order: %+v", payment)
	}

	if len(receipts.receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts.receipts))
	}
	if len(receipts.sent) != 1 {
		t.Errorf("receipt not stamped sent")
	}

	// Customer receipt plus admin notification
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.sent))
	}
	if sender.sent[0].to != "pat@example.com" || sender.sent[1].to != "admin@example.com" {
		t.Errorf("email recipients = %v", sender.sent)
	}
}

func TestProcessEventLowercaseNoteMatches(t *testing.T) {
	quotes := newFakeQuotes()
	num := "V-A260001"
	price := 20.0
	quotes.add(&models.QuoteWithCustomer{
		Quote: models.Quote{CustomerID: 1, Price: &price, OrderNumber: &num,
			Status: models.QuoteStatusPendingPayment, PortalToken: "t"},
		CustomerName: "A",
	})
	svc := newReconciler(quotes, newFakeOrders(), newFakePayments(), &fakeReceipts{}, &fakeEmail{})

	result, err := svc.ProcessEvent(context.Background(), paymentEvent("PAY2", "paid for v-a260001 today", 20))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Action != ActionProcessed {
		t.Errorf("action = %q, note extraction should be case-insensitive", result.Action)
	}
}

func TestProcessEventDuplicateDelivery(t *testing.T) {
	quotes := newFakeQuotes()
	num := "V-A260001"
	price := 75.0
	quotes.add(&models.QuoteWithCustomer{
		Quote: models.Quote{CustomerID: 1, Price: &price, OrderNumber: &num,
			Status: models.QuoteStatusPendingPayment, PortalToken: "t"},
		CustomerName: "A",
	})
	orders := newFakeOrders()
	payments := newFakePayments()
	receipts := &fakeReceipts{}
	svc := newReconciler(quotes, orders, payments, receipts, &fakeEmail{})

	event := paymentEvent("PAY1", "V-A260001", 75)
	first, err := svc.ProcessEvent(context.Background(), event)
	if err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	second, err := svc.ProcessEvent(context.Background(), event)
	if err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}

	if second.Action != ActionAlreadyDone {
		t.Errorf("second action = %q", second.Action)
	}
	if second.PaymentID != first.PaymentID {
		t.Errorf("payment id changed on redelivery: %d vs %d", first.PaymentID, second.PaymentID)
	}
	if len(receipts.receipts) != 1 {
		t.Errorf("redelivery must not create a second receipt, got %d", len(receipts.receipts))
	}
}

func TestProcessEventUnmatchedPayment(t *testing.T) {
	payments := newFakePayments()
	sender := &fakeEmail{configured: true}
	svc := newReconciler(newFakeQuotes(), newFakeOrders(), payments, &fakeReceipts{}, sender)

	result, err := svc.ProcessEvent(context.Background(), paymentEvent("PAY9", "walk-in sale", 30))
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Action != ActionUnmatched {
		t.Fatalf("action = %q", result.Action)
	}

	payment, _ := payments.GetBySquarePaymentID(context.Background(), "PAY9")
	if payment == nil || payment.CustomerName != "unknown" {
		t.Errorf("unmatched payment should be stored with unknown customer: %+v", payment)
	}
	if payment.QuoteID != nil {
		t.Error("unmatched payment should have no quote")
	}

	if len(sender.sent) != 1 || sender.sent[0].to != "admin@example.com" {
		t.Errorf("admin notification = %v", sender.sent)
	}
}

func TestProcessEventEmailFailureDoesNotFail(t *testing.T) {
	quotes := newFakeQuotes()
	num := "V-A260001"
	price := 10.0
	quotes.add(&models.QuoteWithCustomer{
		Quote: models.Quote{CustomerID: 1, Price: &price, OrderNumber: &num,
			Status: models.QuoteStatusPendingPayment, PortalToken: "t"},
		CustomerName:  "A",
		CustomerEmail: "a@example.com",
	})
	receipts := &fakeReceipts{}
	sender := &fakeEmail{configured: true, sendErr: errBoom}
	svc := newReconciler(quotes, newFakeOrders(), newFakePayments(), receipts, sender)

	result, err := svc.ProcessEvent(context.Background(), paymentEvent("PAY1", "V-A260001", 10))
	if err != nil {
		t.Fatalf("email failure must not fail reconciliation: %v", err)
	}
	if result.Action != ActionProcessed {
		t.Errorf("action = %q", result.Action)
	}
	if len(receipts.sent) != 0 {
		t.Error("receipt must not be stamped sent when the email failed")
	}
}

func TestRecordMatchedBackfillsOrderNumber(t *testing.T) {
	quotes := newFakeQuotes()
	price := 10.0
	q := quotes.add(&models.QuoteWithCustomer{
		Quote: models.Quote{CustomerID: 1, Price: &price,
			Status: models.QuoteStatusInProgress, PortalToken: "t"},
		CustomerName: "A",
	})
	svc := newReconciler(quotes, newFakeOrders(), newFakePayments(), &fakeReceipts{}, &fakeEmail{})

	result, err := svc.recordMatched(context.Background(), paymentEvent("PAY1", "", 10).Payment, q)
	if err != nil {
		t.Fatalf("recordMatched failed: %v", err)
	}
	if result.OrderNumber == "" {
		t.Fatal("a matched quote without an order number must be assigned one")
	}
	if q.OrderNumber == nil || *q.OrderNumber != result.OrderNumber {
		t.Errorf("quote order number not backfilled: %v", q.OrderNumber)
	}
}
