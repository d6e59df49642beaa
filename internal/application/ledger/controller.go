// Package ledger keeps a local mirror of a remote ledger in step with the
// ledger service. SyncController is the only writer of the mirrored state.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/domain/service"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/metrics"
	"golang.org/x/sync/errgroup"
)

// Operation names a controller action
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpRemove Operation = "remove"
	OpLoad   Operation = "load"
	OpStats  Operation = "stats"
)

// Confirmer asks the user whether the transaction with id should really be removed
type Confirmer func(ctx context.Context, id string) bool

// Options configures a SyncController
type Options struct {
	// Timeout bounds every remote call; zero disables it
	Timeout time.Duration
	// Confirm is consulted before every removal
	Confirm Confirmer
	Metrics metrics.Collector
	Logger  logger.Logger
	// Now supplies the default draft date
	Now func() time.Time
}

// Snapshot is a copy of the controller state for rendering. Each field is
// read under its own lock, so fields may come from different moments.
type Snapshot struct {
	Filter       entity.Filter
	Transactions []entity.Transaction
	Stats        entity.Stats
	Draft        Draft
	EditingID    string
	FormOpen     bool
	Busy         bool
}

// SyncController orchestrates reads and writes against the ledger service.
// At most one mutating call is in flight; reads are independent of that guard.
// After every committed mutation the full list and the totals are reloaded.
type SyncController struct {
	api     service.LedgerAPI
	store   *TransactionStore
	stats   *StatsAggregator
	form    *DraftForm
	guard   Guard
	timeout time.Duration
	confirm Confirmer
	metrics metrics.Collector
	logger  logger.Logger

	mu     sync.RWMutex
	filter entity.Filter
}

// NewSyncController creates a controller with an empty store and zero totals
func NewSyncController(api service.LedgerAPI, opts Options) *SyncController {
	if opts.Logger == nil {
		opts.Logger = logger.GetDefaultLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOpCollector{}
	}

	return &SyncController{
		api:     api,
		store:   NewTransactionStore(api),
		stats:   NewStatsAggregator(api),
		form:    NewDraftForm(opts.Now),
		timeout: opts.Timeout,
		confirm: opts.Confirm,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		filter:  entity.FilterAll,
	}
}

// Form returns the draft form the user edits before Submit
func (c *SyncController) Form() *DraftForm {
	return c.form
}

// Busy reports whether a mutating operation is in flight
func (c *SyncController) Busy() bool {
	return c.guard.Busy()
}

// Filter returns the currently selected filter
func (c *SyncController) Filter() entity.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Transactions returns the mirrored list
func (c *SyncController) Transactions() []entity.Transaction {
	return c.store.Transactions()
}

// Find looks up id in the mirrored list
func (c *SyncController) Find(id string) (entity.Transaction, bool) {
	return c.store.Find(id)
}

// Stats returns the mirrored totals
func (c *SyncController) Stats() entity.Stats {
	return c.stats.Stats()
}

// Snapshot gathers everything a view needs
func (c *SyncController) Snapshot() Snapshot {
	editingID, _ := c.form.EditingID()
	return Snapshot{
		Filter:       c.Filter(),
		Transactions: c.store.Transactions(),
		Stats:        c.stats.Stats(),
		Draft:        c.form.Draft(),
		EditingID:    editingID,
		FormOpen:     c.form.IsOpen(),
		Busy:         c.guard.Busy(),
	}
}

// SetFilter selects filter and reloads both the list and the totals
func (c *SyncController) SetFilter(ctx context.Context, filter entity.Filter) error {
	return c.RefreshAll(ctx, filter)
}

// RefreshAll selects filter, reloads the list for it and refreshes the totals.
// A failed list load is returned; a failed stats refresh is only logged.
func (c *SyncController) RefreshAll(ctx context.Context, filter entity.Filter) error {
	if filter == "" {
		filter = entity.FilterAll
	}
	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	return c.reload(ctx, filter)
}

// reload fetches the list for filter and the totals concurrently.
// Only the list error is returned.
func (c *SyncController) reload(ctx context.Context, filter entity.Filter) error {
	var g errgroup.Group
	g.Go(func() error {
		return c.loadTransactions(ctx, filter)
	})
	g.Go(func() error {
		c.refreshStats(ctx)
		return nil
	})
	return g.Wait()
}

// Create validates d and sends it as a new transaction
func (c *SyncController) Create(ctx context.Context, d Draft) error {
	start := time.Now()
	tx, err := d.Transaction("")
	if err != nil {
		c.reject(OpCreate, "", err, start)
		return err
	}

	return c.mutate(ctx, OpCreate, "", start, func(ctx context.Context) error {
		return c.api.CreateTransaction(ctx, tx)
	}, c.form.Reset)
}

// Update validates d and sends it as the full replacement for id
func (c *SyncController) Update(ctx context.Context, id string, d Draft) error {
	start := time.Now()
	if id == "" {
		c.reject(OpUpdate, id, ErrMissingID, start)
		return ErrMissingID
	}
	tx, err := d.Transaction(id)
	if err != nil {
		c.reject(OpUpdate, id, err, start)
		return err
	}

	return c.mutate(ctx, OpUpdate, id, start, func(ctx context.Context) error {
		return c.api.UpdateTransaction(ctx, tx)
	}, c.form.Reset)
}

// Submit sends the staged draft: an update when editing, otherwise a create
func (c *SyncController) Submit(ctx context.Context) error {
	d := c.form.Draft()
	if id, editing := c.form.EditingID(); editing {
		return c.Update(ctx, id, d)
	}
	return c.Create(ctx, d)
}

// Cancel discards the staged draft
func (c *SyncController) Cancel() {
	c.form.Reset()
}

// Remove asks for confirmation and deletes id. A declined confirmation
// returns false with no error and changes nothing.
func (c *SyncController) Remove(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	if id == "" {
		c.reject(OpRemove, id, ErrMissingID, start)
		return false, ErrMissingID
	}
	if c.confirm == nil {
		return false, ErrConfirmationUnavailable
	}
	if !c.confirm(ctx, id) {
		c.logger.Debug("Removal declined", map[string]interface{}{
			"id": id,
		})
		return false, nil
	}

	err := c.mutate(ctx, OpRemove, id, start, func(ctx context.Context) error {
		return c.api.DeleteTransaction(ctx, id)
	}, nil)
	return err == nil, err
}

// mutate runs call under the in-flight guard. The guard is released on every
// exit path before the post-commit reload starts.
func (c *SyncController) mutate(ctx context.Context, op Operation, id string, start time.Time, call func(context.Context) error, onCommit func()) error {
	release, ok := c.guard.TryAcquire()
	if !ok {
		c.reject(op, id, ErrBusy, start)
		return ErrBusy
	}

	c.logger.Debug("Operation started", map[string]interface{}{
		"operation": op,
		"id":        id,
	})

	err := func() error {
		defer release()
		callCtx, cancel := c.withTimeout(ctx)
		defer cancel()
		return classify(call(callCtx))
	}()
	if err != nil {
		c.reject(op, id, err, start)
		return err
	}

	if onCommit != nil {
		onCommit()
	}

	c.metrics.RecordOperation(string(op), metrics.OutcomeCommitted, time.Since(start))
	c.logger.Info("Operation committed", map[string]interface{}{
		"operation":   op,
		"id":          id,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	filter := c.Filter()
	if err := c.reload(ctx, filter); err != nil {
		c.logger.Warn("Reload after commit failed", map[string]interface{}{
			"operation": op,
			"filter":    filter,
			"error":     err.Error(),
		})
	}

	return nil
}

func (c *SyncController) loadTransactions(ctx context.Context, filter entity.Filter) error {
	start := time.Now()
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	applied, err := c.store.load(callCtx, filter)
	if err != nil {
		err = classify(err)
		c.reject(OpLoad, "", err, start)
		return err
	}
	if !applied {
		c.metrics.RecordStaleDiscard("transactions")
		c.logger.Debug("Discarded stale transaction list", map[string]interface{}{
			"filter": filter,
		})
	}
	c.metrics.RecordOperation(string(OpLoad), metrics.OutcomeCommitted, time.Since(start))
	return nil
}

// refreshStats logs failures instead of returning them; the previous totals stay
func (c *SyncController) refreshStats(ctx context.Context) {
	start := time.Now()
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	applied, err := c.stats.refresh(callCtx)
	if err != nil {
		err = classify(err)
		c.metrics.RecordOperation(string(OpStats), outcomeOf(err), time.Since(start))
		c.logger.Warn("Stats refresh failed, keeping previous totals", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if !applied {
		c.metrics.RecordStaleDiscard("stats")
		c.logger.Debug("Discarded stale stats", nil)
	}
	c.metrics.RecordOperation(string(OpStats), metrics.OutcomeCommitted, time.Since(start))
}

func (c *SyncController) reject(op Operation, id string, err error, start time.Time) {
	c.metrics.RecordOperation(string(op), outcomeOf(err), time.Since(start))
	c.logger.Warn("Operation rejected", map[string]interface{}{
		"operation": op,
		"id":        id,
		"error":     err.Error(),
	})
}

func (c *SyncController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// classify marks deadline expiry as ErrTimeout while keeping the original cause
func classify(err error) error {
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func outcomeOf(err error) metrics.Outcome {
	var validationErr *ValidationError
	var serverErr *ServerError
	switch {
	case err == nil:
		return metrics.OutcomeCommitted
	case errors.As(err, &validationErr), errors.Is(err, ErrMissingID):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrBusy):
		return metrics.OutcomeBusy
	case errors.Is(err, ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.As(err, &serverErr):
		return metrics.OutcomeServer
	default:
		return metrics.OutcomeTransport
	}
}
