package order

import "time"

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// OrderPlaced is published after an order commits. It carries everything the
// notifier needs so that notification never reads back through the API path.
type OrderPlaced struct {
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount int         `json:"total_amount"`
	BcoinsUsed  int         `json:"bcoins_used"`
	PhoneNumber string      `json:"phone_number"`
	PlacedAt    time.Time   `json:"placed_at"`
}

// OrderStatusChanged is published after an admin status transition commits.
type OrderStatusChanged struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	Status      Status    `json:"status"`
	PhoneNumber string    `json:"phone_number"`
	ChangedAt   time.Time `json:"changed_at"`
}
