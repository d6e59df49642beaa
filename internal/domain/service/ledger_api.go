package service

import (
	"context"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
)

// LedgerAPI defines the interface for interacting with the remote ledger service
type LedgerAPI interface {
	// ListTransactions returns the transactions selected by filter, in server order
	ListTransactions(ctx context.Context, filter entity.Filter) ([]entity.Transaction, error)

	// GetStats returns the income, expense and balance totals
	GetStats(ctx context.Context) (*entity.Stats, error)

	// CreateTransaction persists a transaction without an ID
	CreateTransaction(ctx context.Context, tx *entity.Transaction) error

	// UpdateTransaction replaces the full record identified by tx.ID
	UpdateTransaction(ctx context.Context, tx *entity.Transaction) error

	// DeleteTransaction removes the record with the given ID
	DeleteTransaction(ctx context.Context, id string) error
}
