package services

import "errors"

// Sentinel errors handlers map onto HTTP status codes.
var (
	// ErrValidation wraps missing/invalid submission fields (400).
	ErrValidation = errors.New("validation failed")
	// ErrQuoteNotFound means no quote matches the requested id/token (404).
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrInvalidState means the quote is not in the status the requested
	// transition requires (400).
	ErrInvalidState = errors.New("quote is not in a valid state for this action")
	// ErrMissingPrice blocks acceptance of an unpriced quote (400).
	ErrMissingPrice = errors.New("quote has no price")
	// ErrMissingEmail blocks acceptance when the customer has no email (400).
	ErrMissingEmail = errors.New("customer has no email address")
)
