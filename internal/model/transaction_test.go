package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Transaction {
	return Transaction{
		ID:        "2024-01-01-1704067200000-ab12cd34",
		Date:      "2024-01-01",
		Type:      TypeRevenue,
		Amount:    decimal.NewFromInt(500),
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"missing id", func(tx *Transaction) { tx.ID = "" }},
		{"bad date", func(tx *Transaction) { tx.Date = "01/01/2024" }},
		{"empty date", func(tx *Transaction) { tx.Date = "" }},
		{"unknown type", func(tx *Transaction) { tx.Type = "income" }},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }},
		{"zero createdAt", func(tx *Transaction) { tx.CreatedAt = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(&tx)
			assert.Error(t, tx.Validate())
		})
	}
}

func TestValidate_ZeroAmountOK(t *testing.T) {
	tx := valid()
	tx.Amount = decimal.Zero
	assert.NoError(t, tx.Validate())
}

func TestAmountMarshalsAsNumber(t *testing.T) {
	tx := valid()
	tx.Amount = decimal.RequireFromString("19.90")

	data, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":19.9`)
	assert.NotContains(t, string(data), `"amount":"19.9"`)
}

func TestOptionalFieldsOmitted(t *testing.T) {
	data, err := json.Marshal(valid())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "category")
	assert.NotContains(t, string(data), "note")
}
