package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/grocer-backend/internal/domain/order"
	"github.com/example/grocer-backend/internal/event"
	"github.com/example/grocer-backend/internal/sms"
)

// Handler turns order events into SMS notifications. It runs off-path in the
// notifier worker: nothing here can delay or fail an API response, and a
// failed send is only ever logged.
type Handler struct {
	sms        *sms.Service
	ownerPhone string
}

// NewHandler creates a notification handler. ownerPhone may be empty, in
// which case store-owner alerts are skipped.
func NewHandler(smsService *sms.Service, ownerPhone string) *Handler {
	return &Handler{sms: smsService, ownerPhone: ownerPhone}
}

// HandleEvent processes one event from Kafka.
func (h *Handler) HandleEvent(ctx context.Context, _, value []byte) error {
	var envelope event.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch envelope.Type {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(ctx, envelope.Data)
	case order.EventOrderStatusChanged:
		return h.handleStatusChanged(ctx, envelope.Data)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(ctx context.Context, data json.RawMessage) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	if _, err := h.sms.Send(ctx, e.PhoneNumber, OrderPlacedMessage(e)); err != nil {
		log.Printf("[Notifier] Failed to notify buyer for order %s: %v", e.OrderID, err)
	} else {
		log.Printf("[Notifier] Order confirmation sent for order %s", e.OrderID)
	}

	if h.ownerPhone != "" {
		if _, err := h.sms.Send(ctx, h.ownerPhone, OwnerAlertMessage(e)); err != nil {
			log.Printf("[Notifier] Failed to notify store owner for order %s: %v", e.OrderID, err)
		}
	}
	return nil
}

func (h *Handler) handleStatusChanged(ctx context.Context, data json.RawMessage) error {
	var e order.OrderStatusChanged
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderStatusChanged event: %v", err)
		return err
	}

	if _, err := h.sms.Send(ctx, e.PhoneNumber, StatusMessage(e.Status, e.OrderID)); err != nil {
		log.Printf("[Notifier] Failed to notify buyer for order %s (%s): %v", e.OrderID, e.Status, err)
		return nil
	}
	log.Printf("[Notifier] Status update (%s) sent for order %s", e.Status, e.OrderID)
	return nil
}
