package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccountSnapshotRestore(t *testing.T) {
	a := NewAccount("Checking", AccountTypeAsset, "USD")
	a.Notes = "primary"
	backup := a.Snapshot()

	a.Name = "Renamed"
	a.Notes = ""
	a.RestoreFrom(backup)

	assert.Equal(t, "Checking", a.Name)
	assert.Equal(t, "primary", a.Notes)
	assert.Equal(t, backup.ID, a.ID)
}

func TestTransactionSnapshot_DeepCopiesSplits(t *testing.T) {
	checking := NewAccount("Checking", AccountTypeAsset, "USD")
	groceries := NewAccount("Groceries", AccountTypeExpense, "USD")
	txn := NewSimpleTransaction(date(2025, 1, 15), "Market", checking, groceries, dec("42.50"))

	backup := txn.Snapshot()
	txn.Splits[0].Amount = dec("99.99")
	txn.Splits[0].Memo = "mutated"

	assert.True(t, backup.Splits[0].Amount.Equal(dec("42.50")), "backup splits must not share state with the live transaction")
	assert.Empty(t, backup.Splits[0].Memo)
	assert.Same(t, groceries, backup.Splits[0].Account, "accounts are referenced, not copied")
	assert.Same(t, backup, backup.Splits[0].Transaction, "copied splits are owned by the copy")
}

func TestTransactionRestoreFrom_DoesNotAliasSource(t *testing.T) {
	checking := NewAccount("Checking", AccountTypeAsset, "USD")
	txn := NewSimpleTransaction(date(2025, 1, 15), "Market", checking, nil, dec("10.00"))
	backup := txn.Snapshot()

	txn.Splits[0].Amount = dec("50.00")
	txn.RestoreFrom(backup)
	require.True(t, txn.Splits[0].Amount.Equal(dec("10.00")))

	// Mutating the restored transaction must not reach into the source.
	txn.Splits[0].Amount = dec("77.00")
	assert.True(t, backup.Splits[0].Amount.Equal(dec("10.00")))
	assert.Same(t, txn, txn.Splits[0].Transaction)
}

func TestTransactionBalanceAndAmount(t *testing.T) {
	checking := NewAccount("Checking", AccountTypeAsset, "USD")
	rent := NewAccount("Rent", AccountTypeExpense, "USD")
	txn := NewSimpleTransaction(date(2025, 2, 1), "Rent", checking, rent, dec("1200.00"))

	assert.True(t, txn.IsBalanced())
	assert.True(t, txn.Amount().Equal(dec("1200.00")))

	txn.AddSplit(nil, dec("5.00"), "fee")
	assert.False(t, txn.IsBalanced())
	assert.True(t, txn.Balance().Equal(dec("5.00")))
}

func TestAffectedAccounts_DistinctNonNil(t *testing.T) {
	checking := NewAccount("Checking", AccountTypeAsset, "USD")
	txn := NewTransaction(date(2025, 2, 1), "Transfer")
	txn.AddSplit(checking, dec("10.00"), "")
	txn.AddSplit(checking, dec("-5.00"), "")
	txn.AddSplit(nil, dec("-5.00"), "")

	affected := txn.AffectedAccounts()
	require.Len(t, affected, 1)
	assert.Same(t, checking, affected[0])
}

func TestScheduleSpawnAt(t *testing.T) {
	ref := NewTransaction(date(2025, 1, 1), "Rent")
	s := NewSchedule(ref, RepeatMonthly, 1)

	spawn := s.SpawnAt(date(2025, 3, 1))
	require.NotNil(t, spawn)
	assert.True(t, spawn.IsSpawn())
	assert.Same(t, s, spawn.SpawnOf)
	assert.Equal(t, date(2025, 3, 1), spawn.Date)
	assert.Equal(t, date(2025, 3, 1), spawn.SpawnDate)
	assert.Equal(t, "Rent", spawn.Description)
	assert.True(t, s.ContainsSpawn(spawn))
}

func TestScheduleSpawnAt_Exceptions(t *testing.T) {
	ref := NewTransaction(date(2025, 1, 1), "Rent")
	s := NewSchedule(ref, RepeatMonthly, 1)

	s.DeleteSpawnAt(date(2025, 2, 1))
	assert.Nil(t, s.SpawnAt(date(2025, 2, 1)))

	override := NewTransaction(date(2025, 3, 3), "Rent (late)")
	s.OverrideSpawnAt(date(2025, 3, 1), override)
	spawn := s.SpawnAt(date(2025, 3, 1))
	require.NotNil(t, spawn)
	assert.Equal(t, "Rent (late)", spawn.Description)
	assert.True(t, s.ContainsSpawn(spawn))
}

func TestScheduleSpawnsBetween(t *testing.T) {
	ref := NewTransaction(date(2025, 1, 1), "Gym")
	s := NewSchedule(ref, RepeatWeekly, 2)

	spawns := s.SpawnsBetween(date(2025, 1, 1), date(2025, 2, 28))
	require.Len(t, spawns, 5) // Jan 1, 15, 29, Feb 12, 26
	assert.Equal(t, date(2025, 1, 15), spawns[1].Date)
	assert.Equal(t, date(2025, 2, 26), spawns[4].Date)
}

func TestScheduleSpawnsBetween_StopDate(t *testing.T) {
	ref := NewTransaction(date(2025, 1, 1), "Rent")
	s := NewSchedule(ref, RepeatMonthly, 1)
	s.Stop = date(2025, 3, 31)

	spawns := s.SpawnsBetween(date(2025, 1, 1), date(2025, 12, 31))
	require.Len(t, spawns, 3) // Jan, Feb, Mar
}

func TestScheduleNextDate(t *testing.T) {
	ref := NewTransaction(date(2025, 1, 31), "Payday")
	tests := []struct {
		repeat RepeatType
		every  int
		want   time.Time
	}{
		{RepeatDaily, 3, date(2025, 2, 3)},
		{RepeatWeekly, 1, date(2025, 2, 7)},
		{RepeatMonthly, 1, date(2025, 3, 3)}, // Jan 31 + 1 month normalizes past Feb
		{RepeatYearly, 2, date(2027, 1, 31)},
	}
	for _, tc := range tests {
		s := NewSchedule(ref, tc.repeat, tc.every)
		assert.Equal(t, tc.want, s.NextDate(date(2025, 1, 31)), "repeat=%s every=%d", tc.repeat, tc.every)
	}
}

func TestScheduleSnapshotRestore_DeepCopiesExceptions(t *testing.T) {
	ref := NewTransaction(date(2025, 1, 1), "Rent")
	s := NewSchedule(ref, RepeatMonthly, 1)
	s.OverrideSpawnAt(date(2025, 2, 1), NewTransaction(date(2025, 2, 2), "Rent (late)"))
	backup := s.Snapshot()

	s.DeleteSpawnAt(date(2025, 3, 1))
	s.Ref.Description = "Mutated"
	s.Every = 6

	assert.Equal(t, "Rent", backup.Ref.Description)
	assert.Len(t, backup.Exceptions, 1)

	s.RestoreFrom(backup)
	assert.Equal(t, "Rent", s.Ref.Description)
	assert.Equal(t, 1, s.Every)
	assert.Len(t, s.Exceptions, 1)
	assert.NotSame(t, backup.Ref, s.Ref, "restore must not alias the source template")
}
