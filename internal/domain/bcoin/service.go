package bcoin

import "context"

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// History is a page of a user's ledger plus the cached balance.
type History struct {
	Entries        []*Entry `json:"transactions"`
	CurrentBalance int      `json:"current_balance"`
	Total          int      `json:"-"`
}

func (s *Service) History(ctx context.Context, userID string, limit, offset int) (*History, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, total, err := s.store.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	balance, err := s.store.CachedBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &History{Entries: entries, CurrentBalance: balance, Total: total}, nil
}

func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	return s.store.CachedBalance(ctx, userID)
}

// Reconcile compares every user's cached balance against the sum of their
// ledger entries. The cached counter is a denormalized read optimization; the
// ledger is the source of truth, so any disagreement is a consistency bug.
func (s *Service) Reconcile(ctx context.Context) ([]Discrepancy, error) {
	sums, err := s.store.LedgerSums(ctx)
	if err != nil {
		return nil, err
	}
	cached, err := s.store.CachedBalances(ctx)
	if err != nil {
		return nil, err
	}

	var out []Discrepancy
	for userID, balance := range cached {
		if sums[userID] != balance {
			out = append(out, Discrepancy{
				UserID:        userID,
				CachedBalance: balance,
				LedgerSum:     sums[userID],
			})
		}
	}
	// Users with ledger entries but no user row (weak references, no
	// cascading delete) still count as discrepancies.
	for userID, sum := range sums {
		if _, ok := cached[userID]; !ok && sum != 0 {
			out = append(out, Discrepancy{UserID: userID, LedgerSum: sum})
		}
	}
	return out, nil
}
