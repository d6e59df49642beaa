package ledger

import (
	"sync"
	"sync/atomic"
)

// Guard admits at most one mutating operation at a time.
// A second caller is turned away immediately rather than queued.
type Guard struct {
	busy atomic.Bool
}

// TryAcquire claims the guard. The returned release func is safe to call more than once.
func (g *Guard) TryAcquire() (release func(), ok bool) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.busy.Store(false) })
	}, true
}

// Busy reports whether an operation currently holds the guard
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
