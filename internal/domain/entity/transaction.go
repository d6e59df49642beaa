package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out
type TransactionType string

const (
	// TypeIncome marks money received
	TypeIncome TransactionType = "income"
	// TypeExpense marks money spent
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType converts a raw string into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

var categories = map[TransactionType][]string{
	TypeIncome:  {"Salary", "Freelance", "Investment", "Gift", "Other"},
	TypeExpense: {"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Education", "Other"},
}

// Categories returns the allowed categories for a transaction type, in display order
func Categories(t TransactionType) []string {
	allowed := categories[t]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

// IsValidCategory reports whether category belongs to the allowed set for t
func IsValidCategory(t TransactionType, category string) bool {
	for _, c := range categories[t] {
		if c == category {
			return true
		}
	}
	return false
}

// Transaction represents a single ledger entry
type Transaction struct {
	ID          string          `json:"id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("type must be %q or %q", TypeIncome, TypeExpense)
	}

	if t.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}

	if !IsValidCategory(t.Type, t.Category) {
		return fmt.Errorf("category %q is not allowed for %s", t.Category, t.Type)
	}

	if strings.TrimSpace(t.Description) == "" {
		return errors.New("description must not be empty")
	}

	if t.Date.IsZero() {
		return errors.New("date must be set")
	}

	return nil
}

// SameContent reports whether t and other carry the same data, ignoring ID
func (t Transaction) SameContent(other Transaction) bool {
	return t.Type == other.Type &&
		t.Amount.Equal(other.Amount) &&
		t.Category == other.Category &&
		t.Description == other.Description &&
		t.Date.Equal(other.Date)
}
