package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/grocer-backend/internal/domain/catalog"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

type PaymentMode string

const (
	PaymentCashOnDelivery PaymentMode = "cash_on_delivery"
	PaymentOnline         PaymentMode = "online"
	PaymentBcoins         PaymentMode = "bcoins"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order must have at least one item")
	ErrInvalidQuantity    = errors.New("item quantity must be positive")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrInvalidStatus      = errors.New("invalid order status transition")
	ErrStatusConflict     = errors.New("order status changed concurrently")
)

// validTransitions defines allowed state transitions. Delivered and cancelled
// are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// KnownStatus reports whether s is one of the six lifecycle statuses.
func KnownStatus(s Status) bool {
	_, ok := validTransitions[s]
	return ok
}

// ValidPaymentMode reports whether m is a supported payment mode.
func ValidPaymentMode(m PaymentMode) bool {
	switch m {
	case PaymentCashOnDelivery, PaymentOnline, PaymentBcoins:
		return true
	}
	return false
}

// CanTransitionTo checks if the order can transition to the target status.
// Only reachable next states are allowed, not merely known ones.
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition.
func (o *Order) transitionError(target Status) error {
	if !KnownStatus(target) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, target)
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
}

// OrderItem snapshots the product at order time. Name and unit price must
// never change when the catalog is later edited.
type OrderItem struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   int          `json:"unit_price"`
	TotalPrice  int          `json:"total_price"`
	Unit        catalog.Unit `json:"unit"`
}

// Order is the persisted order aggregate. TotalAmount is the amount charged
// after the bcoin discount; the pre-discount subtotal is always
// TotalAmount + BcoinsUsed.
type Order struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	Items             []OrderItem   `json:"items"`
	Status            Status        `json:"status"`
	TotalAmount       int           `json:"total_amount"`
	DeliveryAddress   string        `json:"delivery_address"`
	PhoneNumber       string        `json:"phone_number"`
	PaymentMode       PaymentMode   `json:"payment_mode"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	BcoinsUsed        int           `json:"bcoins_used"`
	DeliveryFee       int           `json:"delivery_fee"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Subtotal is the pre-discount sum of line totals.
func (o *Order) Subtotal() int {
	sum := 0
	for _, it := range o.Items {
		sum += it.TotalPrice
	}
	return sum
}
