package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

const sampleCSV = `date,description,amount
2025-04-01,COFFEE SHOP,-4.50
2025-04-02,SALARY,2500.00
`

func TestGenericParser_Parse(t *testing.T) {
	rows, err := GenericParser{}.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "COFFEE SHOP", rows[0].Description)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-4.50")))
	assert.Equal(t, "generic_20250401", rows[0].Reference)
	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("2500.00")))
}

func TestGenericParser_BadRow(t *testing.T) {
	_, err := GenericParser{}.Parse(strings.NewReader("date,description,amount\nbogus,X,1.00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestGenericParser_HeaderOnly(t *testing.T) {
	rows, err := GenericParser{}.Parse(strings.NewReader("date,description,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	require.NotNil(t, r.Get("generic"))
	require.NotNil(t, r.Get("GENERIC"), "lookup is case-insensitive")
	assert.Nil(t, r.Get("unknown"))
	assert.Panics(t, func() { r.Register(GenericParser{}) }, "duplicate format panics")
}

func TestTransactions_UnassignedCounterSplit(t *testing.T) {
	rows, err := GenericParser{}.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	target := model.NewAccount("Checking", model.AccountTypeAsset, "USD")
	txns := Transactions(rows, target)
	require.Len(t, txns, 2)

	for _, txn := range txns {
		require.Len(t, txn.Splits, 2)
		assert.True(t, txn.IsBalanced())
		assert.Same(t, target, txn.Splits[0].Account)
		assert.Nil(t, txn.Splits[1].Account)
	}
	assert.True(t, txns[0].Splits[0].Amount.Equal(decimal.RequireFromString("-4.50")))
}
