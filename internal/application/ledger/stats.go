package ledger

import (
	"context"
	"sync"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/domain/service"
)

// StatsAggregator holds the totals reported by the ledger service.
// They are never derived from the transaction list.
type StatsAggregator struct {
	api service.LedgerAPI

	mu     sync.RWMutex
	stats  entity.Stats
	issued uint64
}

// NewStatsAggregator creates an aggregator holding zero totals
func NewStatsAggregator(api service.LedgerAPI) *StatsAggregator {
	return &StatsAggregator{api: api}
}

// refresh replaces all three totals at once, only if no later refresh was issued meanwhile.
// On error the previous totals are kept.
func (a *StatsAggregator) refresh(ctx context.Context) (bool, error) {
	a.mu.Lock()
	a.issued++
	ticket := a.issued
	a.mu.Unlock()

	stats, err := a.api.GetStats(ctx)
	if err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if ticket != a.issued {
		return false, nil
	}

	a.stats = *stats
	return true, nil
}

// Stats returns the held totals
func (a *StatsAggregator) Stats() entity.Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}
