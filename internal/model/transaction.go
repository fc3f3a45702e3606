package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts persist and travel as JSON numbers, matching the stored
	// array-of-objects layout and the transactions table.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType classifies a transaction.
type TransactionType string

const (
	TypeAds     TransactionType = "ads"
	TypeExpense TransactionType = "expense"
	TypeRevenue TransactionType = "revenue"
)

// Valid reports whether t is one of the three known types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeAds, TypeExpense, TypeRevenue:
		return true
	}
	return false
}

// DateFormat is the calendar-date layout used throughout: fixed-width and
// zero-padded, so lexicographic order equals chronological order.
const DateFormat = "2006-01-02"

// Transaction is a single dated monetary record.
type Transaction struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate checks the full-record invariants. The file store uses it as a
// corruption filter: records that fail are dropped on read.
func (tx Transaction) Validate() error {
	if tx.ID == "" {
		return fmt.Errorf("missing id")
	}
	if _, err := time.Parse(DateFormat, tx.Date); err != nil {
		return fmt.Errorf("invalid date %q", tx.Date)
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("unknown type %q", tx.Type)
	}
	if tx.Amount.IsNegative() {
		return fmt.Errorf("negative amount %s", tx.Amount)
	}
	if tx.CreatedAt.IsZero() {
		return fmt.Errorf("missing createdAt")
	}
	return nil
}
