package entity

import "github.com/shopspring/decimal"

// Stats holds the ledger totals as reported by the ledger service
type Stats struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
