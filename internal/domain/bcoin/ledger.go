package bcoin

import (
	"context"
	"errors"
	"time"
)

// Exchange rates for the bcoin loyalty currency.
const (
	// EarnThreshold is the amount spent that earns one bcoin.
	EarnThreshold = 100
	// RedeemRate is the discount, in currency units, granted per bcoin redeemed.
	RedeemRate = 2
)

type TransactionType string

const (
	TypeEarned   TransactionType = "earned"
	TypeRedeemed TransactionType = "redeemed"
)

var ErrInsufficientBalance = errors.New("insufficient bcoins")

// Entry is one loyalty-ledger transaction. Entries are append-only: they are
// written once at order-creation time and never edited or deleted.
type Entry struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	OrderID         string          `json:"order_id"`
	AmountSpent     int             `json:"amount_spent"`
	Bcoins          int             `json:"bcoins"`
	TransactionType TransactionType `json:"transaction_type"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SignedDelta is the entry's contribution to the user's balance.
func (e *Entry) SignedDelta() int {
	if e.TransactionType == TypeRedeemed {
		return -e.Bcoins
	}
	return e.Bcoins
}

// EarnedFor returns the bcoins earned for spending amount: one per
// EarnThreshold currency units, rounded down.
func EarnedFor(amount int) int {
	if amount <= 0 {
		return 0
	}
	return amount / EarnThreshold
}

// Discrepancy records a user whose cached balance disagrees with the ledger.
type Discrepancy struct {
	UserID        string
	CachedBalance int
	LedgerSum     int
}

// Store is the read-side contract for the ledger. Entries are only ever
// inserted inside the order-placement transaction (see the order package).
type Store interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Entry, int, error)
	CachedBalance(ctx context.Context, userID string) (int, error)
	// LedgerSums returns, per user with at least one entry, the sum of
	// signed deltas.
	LedgerSums(ctx context.Context) (map[string]int, error)
	CachedBalances(ctx context.Context) (map[string]int, error)
}
