package order

import (
	"context"

	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/example/grocer-backend/internal/domain/catalog"
)

// Tx is the set of mutations available inside one order-placement
// transaction. Either every call commits or none does.
type Tx interface {
	// FindActiveProduct returns catalog.ErrProductNotFound for missing or
	// inactive products.
	FindActiveProduct(ctx context.Context, productID string) (*catalog.Product, error)
	// DecrementStock is a conditional atomic decrement: it fails with
	// catalog.ErrInsufficientStock instead of driving stock negative. This
	// commit-time guard holds even when the earlier read-time check passed,
	// so concurrent orders cannot oversell a product.
	DecrementStock(ctx context.Context, productID string, quantity int) error
	// DebitBcoins conditionally decrements the cached balance, failing with
	// bcoin.ErrInsufficientBalance when the balance is too low.
	DebitBcoins(ctx context.Context, userID string, amount int) error
	CreditBcoins(ctx context.Context, userID string, amount int) error
	InsertOrder(ctx context.Context, o *Order) error
	InsertLedgerEntry(ctx context.Context, e *bcoin.Entry) error
}

// ListFilter narrows and pages an order listing.
type ListFilter struct {
	Status Status
	UserID string
	Limit  int
	Offset int
}

// Store is the persistence contract for orders.
type Store interface {
	// Transact runs fn inside a single transaction with all-or-nothing
	// commit across stock, balance, order and ledger mutations.
	Transact(ctx context.Context, fn func(tx Tx) error) error
	// FindByID returns ErrOrderNotFound when the order does not exist.
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]*Order, int, error)
	// UpdateStatus persists the transition only if the order is still in
	// from, returning ErrStatusConflict otherwise. This guards two admins
	// racing to apply conflicting transitions.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

// Publisher publishes domain events after commit. Implementations must be
// safe to fail: callers log and continue.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}
