package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
)

// ErrTransactionNotFound is returned when no transaction exists for an id
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for transaction storage
type TransactionRepository interface {
	// Store saves a new transaction and returns its ID
	Store(ctx context.Context, transaction *entity.Transaction) (string, error)

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)

	// List returns every stored transaction matching filter, newest date first
	List(ctx context.Context, filter entity.Filter) ([]entity.Transaction, error)

	// Update replaces the stored record with the same ID
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes the transaction with the given ID
	Delete(ctx context.Context, id string) error
}
