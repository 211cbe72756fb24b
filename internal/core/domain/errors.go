package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOrder         = errors.New("order is empty")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrAlreadySubmitting  = errors.New("order is already being submitted")
	ErrOrderConfirmed     = errors.New("order already confirmed")
	ErrOrderRejected      = errors.New("order rejected")
	ErrInvalidResponse    = errors.New("invalid submission response")
	ErrAmountOutOfRange   = errors.New("amount out of range")
)

// MalformedCatalogError is returned when menu data cannot be turned into a catalog.
type MalformedCatalogError struct {
	Group  string
	Item   string
	Reason string
}

func (e *MalformedCatalogError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("malformed catalog: %s", e.Reason)
	}
	return fmt.Sprintf("malformed catalog: %s/%s: %s", e.Group, e.Item, e.Reason)
}

// UnknownItemError means an item id escaped the catalog it was built from.
// It indicates a programming error rather than bad user input.
type UnknownItemError struct {
	ID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown item %q", e.ID)
}

// SubmissionError wraps a transport failure or a negative acknowledgement.
type SubmissionError struct {
	Cause   error
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("submit order: %v: %s", e.Cause, e.Message)
	}
	return fmt.Sprintf("submit order: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
