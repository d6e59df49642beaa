package ledger

import (
	"context"
	"sync"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/domain/service"
)

// TransactionStore mirrors the remote list for one filter.
// Every load replaces the whole list; nothing is merged or patched locally.
type TransactionStore struct {
	api service.LedgerAPI

	mu           sync.RWMutex
	transactions []entity.Transaction
	filter       entity.Filter
	issued       uint64
}

// NewTransactionStore creates an empty store for the "all" filter
func NewTransactionStore(api service.LedgerAPI) *TransactionStore {
	return &TransactionStore{
		api:          api,
		transactions: []entity.Transaction{},
		filter:       entity.FilterAll,
	}
}

// load fetches the list for filter and installs it only if no later load was
// issued meanwhile, whether that later load succeeded or not. It reports whether
// the result was applied. On error the previous contents are kept.
func (s *TransactionStore) load(ctx context.Context, filter entity.Filter) (bool, error) {
	s.mu.Lock()
	s.issued++
	ticket := s.issued
	s.mu.Unlock()

	txs, err := s.api.ListTransactions(ctx, filter)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.issued {
		return false, nil
	}

	s.transactions = txs
	s.filter = filter
	return true, nil
}

// Transactions returns a copy of the held list
func (s *TransactionStore) Transactions() []entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Filter returns the filter the held list was loaded with
func (s *TransactionStore) Filter() entity.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Find returns the held transaction with the given id
func (s *TransactionStore) Find(id string) (entity.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return entity.Transaction{}, false
}
