package notification

import (
	"fmt"

	"github.com/example/grocer-backend/internal/domain/order"
)

// shortID trims an order id for message copy.
func shortID(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}

// OrderPlacedMessage is the buyer-facing confirmation sent right after an
// order is created.
func OrderPlacedMessage(e order.OrderPlaced) string {
	return fmt.Sprintf(
		"Thanks for your order #%s! %d item(s), total Rs.%d. We'll confirm it shortly.",
		shortID(e.OrderID), len(e.Items), e.TotalAmount)
}

// OwnerAlertMessage tells the store owner a new order needs attention.
func OwnerAlertMessage(e order.OrderPlaced) string {
	return fmt.Sprintf(
		"New order #%s: %d item(s), Rs.%d. Open the dashboard to confirm it.",
		shortID(e.OrderID), len(e.Items), e.TotalAmount)
}

// StatusMessage returns the buyer-facing copy for a status change. Statuses
// without dedicated copy fall back to a generic update.
func StatusMessage(status order.Status, orderID string) string {
	id := shortID(orderID)
	switch status {
	case order.StatusConfirmed:
		return fmt.Sprintf("Your order #%s is confirmed and will be prepared soon.", id)
	case order.StatusPreparing:
		return fmt.Sprintf("Your order #%s is being prepared.", id)
	case order.StatusOutForDelivery:
		return fmt.Sprintf("Your order #%s is out for delivery. It will reach you soon!", id)
	case order.StatusDelivered:
		return fmt.Sprintf("Your order #%s has been delivered. Thank you for shopping with us!", id)
	case order.StatusCancelled:
		return fmt.Sprintf("Your order #%s has been cancelled. Contact support for any questions.", id)
	default:
		return fmt.Sprintf("Your order #%s status is now: %s.", id, status)
	}
}
