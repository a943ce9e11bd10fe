package service

import (
	"errors"
	"fmt"
)

var (
	ErrPaymentNotConfigured       = errors.New("payment system is not configured")
	ErrWebhookSecretNotConfigured = errors.New("webhook signing secret is not configured")
	ErrTourNotFound               = errors.New("tour not found")
	ErrBookingNotFound            = errors.New("booking not found")
	ErrBookingExists              = errors.New("booking already exists for this tour and user")
)

// UpstreamError wraps a rejection from the payment provider so the HTTP layer
// can pass the provider's message through with a client-error status.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("stripe error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
