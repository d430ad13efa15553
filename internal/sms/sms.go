// Package sms sends transactional text messages through an external gateway.
// Every caller in this system treats a send failure as non-fatal: it is
// logged and never fails or rolls back the operation that triggered it.
package sms

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number: must be 10 digits")
	ErrSendFailed   = errors.New("sms send failed")
)

// countryCode is prefixed to the bare 10-digit subscriber number before the
// message is handed to the gateway.
const countryCode = "+91"

// Receipt is the gateway's delivery receipt.
type Receipt struct {
	SID string
}

// Client is the gateway transport. It receives a full E.164 destination.
type Client interface {
	Send(ctx context.Context, to, body string) (Receipt, error)
}

// Service validates destinations and hands messages to the gateway client.
type Service struct {
	client Client
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

func (s *Service) Send(ctx context.Context, phone, message string) (Receipt, error) {
	if !validSubscriberNumber(phone) {
		return Receipt{}, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	if message == "" {
		return Receipt{}, fmt.Errorf("%w: empty message", ErrSendFailed)
	}
	return s.client.Send(ctx, countryCode+phone, message)
}

func validSubscriberNumber(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
