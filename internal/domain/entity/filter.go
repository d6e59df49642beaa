package entity

import "fmt"

// Filter selects which subset of transactions the ledger service returns
type Filter string

const (
	FilterAll     Filter = "all"
	FilterIncome  Filter = "income"
	FilterExpense Filter = "expense"
)

// ParseFilter converts a raw query value into a Filter; empty means all
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterIncome:
		return FilterIncome, nil
	case FilterExpense:
		return FilterExpense, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// Matches reports whether a transaction of type t belongs to the filtered subset
func (f Filter) Matches(t TransactionType) bool {
	switch f {
	case FilterIncome:
		return t == TypeIncome
	case FilterExpense:
		return t == TypeExpense
	default:
		return true
	}
}
