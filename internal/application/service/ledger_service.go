// Package service holds the reference ledger server's business logic
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/domain/repository"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction is wrapped around every validation failure
var ErrInvalidTransaction = errors.New("invalid transaction")

// LedgerService handles business logic for the reference ledger server
type LedgerService struct {
	repo   repository.TransactionRepository
	logger logger.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repo repository.TransactionRepository, log logger.Logger) *LedgerService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &LedgerService{repo: repo, logger: log}
}

// CreateTransaction assigns a fresh ID, validates and stores tx
func (s *LedgerService) CreateTransaction(ctx context.Context, tx *entity.Transaction) (string, error) {
	record := *tx
	record.ID = uuid.New().String()

	if err := record.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	id, err := s.repo.Store(ctx, &record)
	if err != nil {
		return "", err
	}

	s.logger.Info("Transaction created", map[string]interface{}{
		"id":   id,
		"type": record.Type,
	})
	return id, nil
}

// UpdateTransaction replaces the full record identified by tx.ID
func (s *LedgerService) UpdateTransaction(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTransaction)
	}
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		return err
	}

	s.logger.Info("Transaction updated", map[string]interface{}{
		"id": tx.ID,
	})
	return nil
}

// DeleteTransaction removes the record with the given ID
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTransaction)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Transaction deleted", map[string]interface{}{
		"id": id,
	})
	return nil
}

// GetTransaction retrieves a transaction by ID
func (s *LedgerService) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTransactions returns the filtered transactions, newest date first
func (s *LedgerService) ListTransactions(ctx context.Context, filter entity.Filter) ([]entity.Transaction, error) {
	txs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].ID < txs[j].ID
	})
	return txs, nil
}

// Stats totals income and expense over every stored transaction
func (s *LedgerService) Stats(ctx context.Context) (*entity.Stats, error) {
	txs, err := s.repo.List(ctx, entity.FilterAll)
	if err != nil {
		return nil, err
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case entity.TypeIncome:
			income = income.Add(tx.Amount)
		case entity.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	return &entity.Stats{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}, nil
}
