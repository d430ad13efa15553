package store

import (
	"context"
	"database/sql"

	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/example/grocer-backend/internal/domain/user"
)

// LedgerStore implements bcoin.Store on PostgreSQL. It is read-only by
// design: ledger rows are only ever written inside the order transaction.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*bcoin.Entry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bcoin_ledger WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, order_id, amount_spent, bcoins, transaction_type, description, created_at
		 FROM bcoin_ledger WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*bcoin.Entry
	for rows.Next() {
		var e bcoin.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrderID, &e.AmountSpent, &e.Bcoins,
			&e.TransactionType, &e.Description, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

func (s *LedgerStore) CachedBalance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := s.db.QueryRowContext(ctx,
		`SELECT total_bcoins FROM users WHERE id = $1`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, user.ErrUserNotFound
	}
	return balance, err
}

func (s *LedgerStore) LedgerSums(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id,
		        SUM(CASE WHEN transaction_type = 'redeemed' THEN -bcoins ELSE bcoins END)
		 FROM bcoin_ledger GROUP BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]int)
	for rows.Next() {
		var userID string
		var sum int
		if err := rows.Scan(&userID, &sum); err != nil {
			return nil, err
		}
		sums[userID] = sum
	}
	return sums, rows.Err()
}

func (s *LedgerStore) CachedBalances(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, total_bcoins FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[string]int)
	for rows.Next() {
		var userID string
		var balance int
		if err := rows.Scan(&userID, &balance); err != nil {
			return nil, err
		}
		balances[userID] = balance
	}
	return balances, rows.Err()
}
