package sms

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// ConsoleClient logs messages instead of sending them. Used in development
// when the gateway is not configured.
type ConsoleClient struct{}

func NewConsoleClient() *ConsoleClient {
	return &ConsoleClient{}
}

func (c *ConsoleClient) Send(_ context.Context, to, body string) (Receipt, error) {
	sid := uuid.New().String()
	log.Printf("[SMS] (console) to=%s sid=%s body=%q", to, sid, body)
	return Receipt{SID: sid}, nil
}
