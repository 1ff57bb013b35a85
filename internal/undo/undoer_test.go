package undo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// fakeAccounts is a minimal live-collection stand-in.
type fakeAccounts struct {
	members []*model.Account
}

func (f *fakeAccounts) Add(a *model.Account) {
	f.members = append(f.members, a)
}

func (f *fakeAccounts) Remove(a *model.Account) {
	for i, m := range f.members {
		if m == a {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return
		}
	}
}

func (f *fakeAccounts) contains(a *model.Account) bool {
	for _, m := range f.members {
		if m == a {
			return true
		}
	}
	return false
}

type fakeTransactions struct {
	members     []*model.Transaction
	cacheClears int
}

func (f *fakeTransactions) Add(t *model.Transaction) {
	f.members = append(f.members, t)
}

func (f *fakeTransactions) Remove(t *model.Transaction) {
	for i, m := range f.members {
		if m == t {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return
		}
	}
}

func (f *fakeTransactions) ClearCache() {
	f.cacheClears++
}

func (f *fakeTransactions) contains(t *model.Transaction) bool {
	for _, m := range f.members {
		if m == t {
			return true
		}
	}
	return false
}

type fakeSchedules struct {
	members []*model.Schedule
}

func (f *fakeSchedules) Add(s *model.Schedule) {
	f.members = append(f.members, s)
}

func (f *fakeSchedules) Remove(s *model.Schedule) {
	for i, m := range f.members {
		if m == s {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return
		}
	}
}

func (f *fakeSchedules) contains(s *model.Schedule) bool {
	for _, m := range f.members {
		if m == s {
			return true
		}
	}
	return false
}

type fixture struct {
	accounts     *fakeAccounts
	transactions *fakeTransactions
	schedules    *fakeSchedules
	undoer       *Undoer
}

func newFixture() *fixture {
	f := &fixture{
		accounts:     &fakeAccounts{},
		transactions: &fakeTransactions{},
		schedules:    &fakeSchedules{},
	}
	f.undoer = New(f.accounts, f.transactions, f.schedules)
	return f
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewUndoer_InitialState(t *testing.T) {
	f := newFixture()
	assert.False(t, f.undoer.CanUndo())
	assert.False(t, f.undoer.CanRedo())
	assert.False(t, f.undoer.Modified())
	assert.Empty(t, f.undoer.UndoDescription())
	assert.Empty(t, f.undoer.RedoDescription())
}

func TestRecord_AddAccountRoundTrip(t *testing.T) {
	f := newFixture()
	checking := model.NewAccount("Checking", model.AccountTypeAsset, "USD")
	f.accounts.Add(checking)

	action := NewAction("Add Account")
	action.AddedAccounts.Add(checking)
	f.undoer.Record(action)

	assert.True(t, f.undoer.CanUndo())
	assert.False(t, f.undoer.CanRedo())
	assert.Equal(t, "Add Account", f.undoer.UndoDescription())

	f.undoer.Undo()
	assert.False(t, f.accounts.contains(checking))
	assert.True(t, f.undoer.CanRedo())
	assert.Equal(t, "Add Account", f.undoer.RedoDescription())

	f.undoer.Redo()
	assert.True(t, f.accounts.contains(checking))
	assert.False(t, f.undoer.CanRedo())
}

func TestRecord_NeverRedoableWithoutUndo(t *testing.T) {
	f := newFixture()
	for i := 0; i < 5; i++ {
		a := NewAction("Op")
		f.undoer.Record(a)
		assert.False(t, f.undoer.CanRedo())
	}
}

func TestUndoDescription_TracksTip(t *testing.T) {
	f := newFixture()
	f.undoer.Record(NewAction("First"))
	assert.Equal(t, "First", f.undoer.UndoDescription())
	f.undoer.Record(NewAction("Second"))
	assert.Equal(t, "Second", f.undoer.UndoDescription())
}

func TestUndoRedo_ChangedAccountExactInverse(t *testing.T) {
	f := newFixture()
	account := model.NewAccount("Savings", model.AccountTypeAsset, "USD")
	f.accounts.Add(account)

	action := NewAction("Rename Account")
	action.ChangeAccounts([]*model.Account{account})
	account.Name = "Emergency Fund"
	account.Notes = "renamed"
	f.undoer.Record(action)

	f.undoer.Undo()
	assert.Equal(t, "Savings", account.Name)
	assert.Empty(t, account.Notes)

	f.undoer.Redo()
	assert.Equal(t, "Emergency Fund", account.Name)
	assert.Equal(t, "renamed", account.Notes)

	// A second cycle must be just as exact.
	f.undoer.Undo()
	assert.Equal(t, "Savings", account.Name)
	f.undoer.Redo()
	assert.Equal(t, "Emergency Fund", account.Name)
}

func TestUndoRedo_ChangedTransactionSplits(t *testing.T) {
	f := newFixture()
	checking := model.NewAccount("Checking", model.AccountTypeAsset, "USD")
	groceries := model.NewAccount("Groceries", model.AccountTypeExpense, "USD")
	txn := model.NewSimpleTransaction(date(2025, 3, 1), "Market", checking, groceries, dec("42.50"))
	f.transactions.Add(txn)

	action := NewAction("Change Transaction")
	action.ChangeTransactions([]*model.Transaction{txn}, nil)
	txn.Description = "Supermarket"
	txn.Splits[0].Amount = dec("45.00")
	txn.Splits[1].Amount = dec("-45.00")
	f.undoer.Record(action)

	f.undoer.Undo()
	assert.Equal(t, "Market", txn.Description)
	assert.True(t, txn.Splits[0].Amount.Equal(dec("42.50")))
	assert.True(t, txn.Splits[1].Amount.Equal(dec("-42.50")))

	f.undoer.Redo()
	assert.Equal(t, "Supermarket", txn.Description)
	assert.True(t, txn.Splits[0].Amount.Equal(dec("45.00")))
}

func TestRecord_AfterUndoDiscardsRedoTail(t *testing.T) {
	f := newFixture()
	f.undoer.Record(NewAction("A"))
	f.undoer.Record(NewAction("B"))
	f.undoer.Record(NewAction("C"))

	f.undoer.Undo()
	f.undoer.Undo()
	require.True(t, f.undoer.CanRedo())

	f.undoer.Record(NewAction("D"))
	assert.False(t, f.undoer.CanRedo())
	assert.Equal(t, "D", f.undoer.UndoDescription())

	// B and C are permanently unreachable: undoing back and redoing forward
	// only ever reaches A and D.
	f.undoer.Undo()
	assert.Equal(t, "A", f.undoer.UndoDescription())
	f.undoer.Redo()
	assert.Equal(t, "D", f.undoer.UndoDescription())
	assert.False(t, f.undoer.CanRedo())
}

func TestUndo_PanicsWhenEmpty(t *testing.T) {
	f := newFixture()
	assert.Panics(t, func() { f.undoer.Undo() })
}

func TestRedo_PanicsAtTip(t *testing.T) {
	f := newFixture()
	f.undoer.Record(NewAction("A"))
	assert.Panics(t, func() { f.undoer.Redo() })
}

func TestScheduleMembership_ReversedByUndoer(t *testing.T) {
	f := newFixture()
	ref := model.NewTransaction(date(2025, 1, 1), "Rent")
	schedule := model.NewSchedule(ref, model.RepeatMonthly, 1)
	f.schedules.Add(schedule)

	action := NewAction("Add Schedule")
	action.AddedSchedules.Add(schedule)
	f.undoer.Record(action)

	f.undoer.Undo()
	assert.False(t, f.schedules.contains(schedule))

	f.undoer.Redo()
	assert.True(t, f.schedules.contains(schedule))
}

func TestDeletedScheduleMembership_ReversedByUndoer(t *testing.T) {
	f := newFixture()
	ref := model.NewTransaction(date(2025, 1, 1), "Rent")
	schedule := model.NewSchedule(ref, model.RepeatMonthly, 1)

	action := NewAction("Remove Schedule")
	action.DeletedSchedules.Add(schedule)
	f.undoer.Record(action)

	f.undoer.Undo()
	assert.True(t, f.schedules.contains(schedule))

	f.undoer.Redo()
	assert.False(t, f.schedules.contains(schedule))
}

func TestUndoRedo_InvalidateTransactionCache(t *testing.T) {
	f := newFixture()
	f.undoer.Record(NewAction("A"))

	f.undoer.Undo()
	assert.Equal(t, 1, f.transactions.cacheClears)

	f.undoer.Redo()
	assert.Equal(t, 2, f.transactions.cacheClears)
}

func TestModified_SavePointLifecycle(t *testing.T) {
	f := newFixture()
	assert.False(t, f.undoer.Modified())

	f.undoer.Record(NewAction("A"))
	assert.True(t, f.undoer.Modified())

	f.undoer.SetSavePoint()
	assert.False(t, f.undoer.Modified())

	f.undoer.Record(NewAction("B"))
	assert.True(t, f.undoer.Modified())

	// Undoing back to the save-point action is unmodified again.
	f.undoer.Undo()
	assert.False(t, f.undoer.Modified())

	f.undoer.Redo()
	assert.True(t, f.undoer.Modified())
}

func TestModified_SavePointAtEmptyHistory(t *testing.T) {
	f := newFixture()
	f.undoer.SetSavePoint()
	assert.False(t, f.undoer.Modified())

	f.undoer.Record(NewAction("A"))
	assert.True(t, f.undoer.Modified())

	// Undoing back to the "no action" state matches the empty save point.
	f.undoer.Undo()
	assert.False(t, f.undoer.Modified())
}

func TestClear_KeepsSavePoint(t *testing.T) {
	f := newFixture()
	f.undoer.Record(NewAction("A"))
	f.undoer.SetSavePoint()

	f.undoer.Clear()
	assert.False(t, f.undoer.CanUndo())
	assert.False(t, f.undoer.CanRedo())

	// The save point now references a vanished action: the document reads as
	// modified until the next SetSavePoint.
	assert.True(t, f.undoer.Modified())
	f.undoer.SetSavePoint()
	assert.False(t, f.undoer.Modified())
}

func TestUndoRedo_UntouchedEntitiesUnaffected(t *testing.T) {
	f := newFixture()
	touched := model.NewAccount("Touched", model.AccountTypeAsset, "USD")
	untouched := model.NewAccount("Untouched", model.AccountTypeAsset, "USD")
	f.accounts.Add(touched)
	f.accounts.Add(untouched)

	action := NewAction("Rename Account")
	action.ChangeAccounts([]*model.Account{touched})
	touched.Name = "Touched 2"
	f.undoer.Record(action)

	f.undoer.Undo()
	assert.Equal(t, "Untouched", untouched.Name)
	assert.True(t, f.accounts.contains(untouched))
	f.undoer.Redo()
	assert.Equal(t, "Untouched", untouched.Name)
}
