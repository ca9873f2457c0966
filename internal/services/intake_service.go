package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"engrave-backend/internal/models"
)

// IntakeService handles public quote/order submissions.
type IntakeService struct {
	Quotes    QuoteStore
	Customers CustomerStore
	Square    SquareAPI
}

func NewIntakeService(quotes QuoteStore, customers CustomerStore, sq SquareAPI) *IntakeService {
	return &IntakeService{Quotes: quotes, Customers: customers, Square: sq}
}

// productBlocks maps the structured blob fields to their description labels,
// in the order they are appended.
var productBlocks = []struct {
	label string
	pick  func(*models.IntakeRequest) string
}{
	{"Business Card Details", func(r *models.IntakeRequest) string { return r.CardData }},
	{"Pen Details", func(r *models.IntakeRequest) string { return r.PenData }},
	{"Label Details", func(r *models.IntakeRequest) string { return r.LabelData }},
	{"Tumbler Details", func(r *models.IntakeRequest) string { return r.TumblerData }},
	{"Sign Details", func(r *models.IntakeRequest) string { return r.SignData }},
}

// Submit validates and stores a submission. Missing required fields return a
// ErrValidation-wrapped error; everything after the quote insert is best
// effort and never fails the request.
func (s *IntakeService) Submit(ctx context.Context, req *models.IntakeRequest) (*models.IntakeResult, error) {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(req.Phone) == "":
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	case strings.TrimSpace(req.ProductType) == "":
		return nil, fmt.Errorf("%w: productType is required", ErrValidation)
	case strings.TrimSpace(req.Description) == "":
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	customer, err := s.Customers.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if customer == nil {
		customer = &models.Customer{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			BusinessName: req.BusinessName,
			BusinessType: req.BusinessType,
			Address:      req.Address,
			City:         req.City,
			State:        req.State,
			Zip:          req.Zip,
		}
		if err := s.Customers.Create(ctx, customer); err != nil {
			return nil, fmt.Errorf("customer create failed: %w", err)
		}
	}
	// An existing customer's details are intentionally not refreshed here;
	// profile edits go through the admin endpoints.

	description := BuildDescription(req)

	price, isOrder := parseDirectOrder(req)

	quote := &models.Quote{
		CustomerID:     customer.ID,
		ProductType:    req.ProductType,
		Quantity:       req.Quantity,
		Description:    description,
		Turnaround:     req.Turnaround,
		DeliveryMethod: req.DeliveryMethod,
		Status:         models.QuoteStatusNew,
		PaymentStatus:  models.PaymentStatusUnpaid,
		PortalToken:    newPortalToken(),
	}

	result := &models.IntakeResult{Success: true}

	if isOrder {
		quote.Status = models.QuoteStatusPendingPayment
		quote.Price = &price
		result.IsOrder = true
		result.Total = &price

		orderNumber, err := s.Quotes.NextOrderNumber(ctx, time.Now())
		if err != nil {
			return nil, fmt.Errorf("order number generation failed: %w", err)
		}
		quote.OrderNumber = &orderNumber
		result.OrderNumber = &orderNumber

		// Payment-link failure is swallowed; the order proceeds without a URL.
		if s.Square != nil && s.Square.Configured() {
			note := fmt.Sprintf("%s - %s", orderNumber, req.Name)
			itemName := fmt.Sprintf("Order %s - %s", orderNumber, req.ProductType)
			url, err := s.Square.CreatePaymentLink(ctx, itemName, toCents(price), note)
			if err != nil {
				log.Printf("[Intake] Payment link creation failed for %s: %v", orderNumber, err)
			} else {
				quote.PaymentURL = &url
				result.PaymentURL = &url
			}
		}
	}

	if err := s.Quotes.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("quote create failed: %w", err)
	}

	return result, nil
}

// BuildDescription appends each present structured product blob to the
// free-form description as a readable block. A blob that fails to parse is
// appended verbatim so customer input is never lost.
func BuildDescription(req *models.IntakeRequest) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(req.Description))

	for _, block := range productBlocks {
		raw := strings.TrimSpace(block.pick(req))
		if raw == "" {
			continue
		}
		b.WriteString("\n\n--- ")
		b.WriteString(block.label)
		b.WriteString(" ---\n")

		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			b.WriteString(raw)
			continue
		}

		keys := make([]string, 0, len(parsed))
		for k := range parsed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("%s: %v", k, parsed[k]))
		}
	}

	return b.String()
}

func parseDirectOrder(req *models.IntakeRequest) (float64, bool) {
	if req.IsOrder != "true" {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(req.CalculatedPrice), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func newPortalToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in bad shape; fall back to
		// a time-derived token rather than crashing intake.
		return fmt.Sprintf("tok-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
