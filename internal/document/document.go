package document

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/undo"
)

// Document is one open ledger: the three live collections plus the undo
// history over them. Every mutating operation builds an undo.Action, takes
// backups before mutating, and records the action when the operation is done.
type Document struct {
	Accounts     *AccountList
	Transactions *TransactionList
	Schedules    *ScheduleList

	undoer       *undo.Undoer
	nextPosition int
}

// New creates an empty document with a fresh undo history.
func New() *Document {
	d := &Document{
		Accounts:     NewAccountList(),
		Transactions: NewTransactionList(),
		Schedules:    NewScheduleList(),
	}
	d.undoer = undo.New(d.Accounts, d.Transactions, d.Schedules)
	return d
}

// --- Accounts

// NewAccount creates and adds an account. Account names are unique,
// case-insensitively.
func (d *Document) NewAccount(name string, accountType model.AccountType, currency string) (*model.Account, error) {
	if d.Accounts.Find(name) != nil {
		return nil, fmt.Errorf("account %q already exists", name)
	}
	account := model.NewAccount(name, accountType, currency)

	action := undo.NewAction("Add Account")
	action.AddedAccounts.Add(account)
	d.Accounts.Add(account)
	d.undoer.Record(action)
	return account, nil
}

// AccountEdit carries the account fields to change; nil fields are left
// alone.
type AccountEdit struct {
	Name          *string
	Type          *model.AccountType
	Currency      *string
	AccountNumber *string
	Group         *string
	Notes         *string
	Inactive      *bool
}

// ChangeAccount applies an edit to an account as one undoable action.
func (d *Document) ChangeAccount(account *model.Account, edit AccountEdit) error {
	if edit.Name != nil {
		if existing := d.Accounts.Find(*edit.Name); existing != nil && existing != account {
			return fmt.Errorf("account %q already exists", *edit.Name)
		}
	}
	action := undo.NewAction("Change Account")
	action.ChangeAccounts([]*model.Account{account})
	if edit.Name != nil {
		account.Name = *edit.Name
	}
	if edit.Type != nil {
		account.Type = *edit.Type
	}
	if edit.Currency != nil {
		account.Currency = *edit.Currency
	}
	if edit.AccountNumber != nil {
		account.AccountNumber = *edit.AccountNumber
	}
	if edit.Group != nil {
		account.Group = *edit.Group
	}
	if edit.Notes != nil {
		account.Notes = *edit.Notes
	}
	if edit.Inactive != nil {
		account.Inactive = *edit.Inactive
	}
	d.undoer.Record(action)
	return nil
}

// DeleteAccounts removes accounts as one undoable action. Splits referencing
// a deleted account become unassigned; their transactions are recorded as
// changed so undo restores the references.
func (d *Document) DeleteAccounts(accounts []*model.Account) {
	// The caller may pass a live collection slice; removal below must not
	// disturb the iteration.
	accounts = append([]*model.Account(nil), accounts...)
	deleted := make(map[*model.Account]bool, len(accounts))
	for _, a := range accounts {
		deleted[a] = true
	}

	var affected []*model.Transaction
	for _, t := range d.Transactions.All() {
		for _, s := range t.Splits {
			if s.Account != nil && deleted[s.Account] {
				affected = append(affected, t)
				break
			}
		}
	}

	action := undo.NewAction("Remove Account")
	action.ChangeTransactions(affected, d.Schedules.All())
	for _, t := range affected {
		for _, s := range t.Splits {
			if s.Account != nil && deleted[s.Account] {
				s.Account = nil
			}
		}
	}
	for _, a := range accounts {
		action.DeletedAccounts.Add(a)
		d.Accounts.Remove(a)
	}
	d.Transactions.ClearCache()
	d.undoer.Record(action)
}

// --- Transactions

// NewTransaction creates, adds and records a balanced two-split transaction.
func (d *Document) NewTransaction(date time.Time, description string, from, to *model.Account, amount decimal.Decimal) *model.Transaction {
	txn := model.NewSimpleTransaction(date, description, from, to, amount)
	txn.Position = d.takePosition()

	action := undo.NewAction("Add Transaction")
	action.AddedTransactions.Add(txn)
	d.Transactions.Add(txn)
	d.Transactions.ClearCache()
	d.undoer.Record(action)
	return txn
}

// TransactionEdit carries the transaction fields to change; nil fields are
// left alone. Amount rescales a two-split transaction, keeping it balanced.
type TransactionEdit struct {
	Date        *time.Time
	Description *string
	Payee       *string
	ChequeNo    *string
	Notes       *string
	Amount      *decimal.Decimal
}

// ChangeTransaction applies an edit as one undoable action.
//
// Editing a spawn never touches the transaction list: the change lands in the
// owning schedule's exception map, and the schedule's prior state is what the
// action captured. The edited occurrence is regenerated from the schedule.
func (d *Document) ChangeTransaction(txn *model.Transaction, edit TransactionEdit) error {
	action := undo.NewAction("Change Transaction")
	action.ChangeTransactions([]*model.Transaction{txn}, d.Schedules.All())

	if txn.IsSpawn() {
		schedule := txn.SpawnOf
		if !d.Schedules.Contains(schedule) {
			return fmt.Errorf("spawn's schedule is not in this document")
		}
		override := txn.Snapshot()
		override.SpawnOf = nil
		override.SpawnDate = time.Time{}
		applyTransactionEdit(override, edit)
		schedule.OverrideSpawnAt(txn.SpawnDate, override)
	} else {
		applyTransactionEdit(txn, edit)
	}
	d.Transactions.ClearCache()
	d.undoer.Record(action)
	return nil
}

func applyTransactionEdit(txn *model.Transaction, edit TransactionEdit) {
	if edit.Date != nil {
		txn.Date = *edit.Date
	}
	if edit.Description != nil {
		txn.Description = *edit.Description
	}
	if edit.Payee != nil {
		txn.Payee = *edit.Payee
	}
	if edit.ChequeNo != nil {
		txn.ChequeNo = *edit.ChequeNo
	}
	if edit.Notes != nil {
		txn.Notes = *edit.Notes
	}
	if edit.Amount != nil && len(txn.Splits) == 2 {
		amount := *edit.Amount
		if txn.Splits[0].Amount.IsNegative() {
			txn.Splits[0].Amount = amount.Neg()
			txn.Splits[1].Amount = amount
		} else {
			txn.Splits[0].Amount = amount
			txn.Splits[1].Amount = amount.Neg()
		}
	}
}

// DeleteTransactions removes transactions as one undoable action. Deleting a
// spawn records a deleted occurrence in its schedule instead.
func (d *Document) DeleteTransactions(txns []*model.Transaction) {
	// The caller may pass a live collection slice; removal below must not
	// disturb the iteration.
	txns = append([]*model.Transaction(nil), txns...)
	action := undo.NewAction("Remove Transaction")

	var spawns []*model.Transaction
	for _, t := range txns {
		if t.IsSpawn() {
			spawns = append(spawns, t)
		}
	}
	action.ChangeTransactions(spawns, d.Schedules.All())

	for _, t := range txns {
		if t.IsSpawn() {
			t.SpawnOf.DeleteSpawnAt(t.SpawnDate)
			continue
		}
		action.DeletedTransactions.Add(t)
		d.Transactions.Remove(t)
	}
	d.Transactions.ClearCache()
	d.undoer.Record(action)
}

// DuplicateTransactions adds copies of the given transactions as one
// undoable action. Copies get fresh IDs and lose any spawn linkage.
func (d *Document) DuplicateTransactions(txns []*model.Transaction) []*model.Transaction {
	action := undo.NewAction("Duplicate Transaction")
	copies := make([]*model.Transaction, 0, len(txns))
	for _, t := range txns {
		cp := t.Snapshot()
		cp.ID = model.NewTransaction(cp.Date, cp.Description).ID
		cp.SpawnOf = nil
		cp.SpawnDate = time.Time{}
		cp.Position = d.takePosition()
		action.AddedTransactions.Add(cp)
		d.Transactions.Add(cp)
		copies = append(copies, cp)
	}
	d.Transactions.ClearCache()
	d.undoer.Record(action)
	return copies
}

// ImportTransactions lands imported accounts and transactions as a single
// undoable action, so undoing an import rolls the whole batch back.
func (d *Document) ImportTransactions(newAccounts []*model.Account, txns []*model.Transaction) {
	action := undo.NewAction("Import")
	for _, a := range newAccounts {
		action.AddedAccounts.Add(a)
		d.Accounts.Add(a)
	}
	for _, t := range txns {
		t.Position = d.takePosition()
		action.AddedTransactions.Add(t)
		d.Transactions.Add(t)
	}
	d.Transactions.ClearCache()
	d.undoer.Record(action)
}

// --- Schedules

// NewSchedule creates a recurring schedule from a template transaction and
// adds it as one undoable action.
func (d *Document) NewSchedule(ref *model.Transaction, repeat model.RepeatType, every int) *model.Schedule {
	schedule := model.NewSchedule(ref, repeat, every)
	action := undo.NewAction("Add Schedule")
	action.AddedSchedules.Add(schedule)
	d.Schedules.Add(schedule)
	d.undoer.Record(action)
	return schedule
}

// ScheduleEdit carries the schedule fields to change; nil fields are left
// alone.
type ScheduleEdit struct {
	Repeat *model.RepeatType
	Every  *int
	Stop   *time.Time
}

// ChangeSchedule applies an edit to a schedule as one undoable action.
func (d *Document) ChangeSchedule(schedule *model.Schedule, edit ScheduleEdit) {
	action := undo.NewAction("Change Schedule")
	action.ChangeSchedule(schedule)
	if edit.Repeat != nil {
		schedule.Repeat = *edit.Repeat
	}
	if edit.Every != nil && *edit.Every >= 1 {
		schedule.Every = *edit.Every
	}
	if edit.Stop != nil {
		schedule.Stop = *edit.Stop
	}
	d.undoer.Record(action)
}

// DeleteSchedule removes a schedule as one undoable action.
func (d *Document) DeleteSchedule(schedule *model.Schedule) {
	action := undo.NewAction("Remove Schedule")
	action.DeletedSchedules.Add(schedule)
	d.Schedules.Remove(schedule)
	d.undoer.Record(action)
}

// SpawnsBetween materializes every schedule occurrence in [start, end] across
// all schedules, in schedule order.
func (d *Document) SpawnsBetween(start, end time.Time) []*model.Transaction {
	var spawns []*model.Transaction
	for _, s := range d.Schedules.All() {
		spawns = append(spawns, s.SpawnsBetween(start, end)...)
	}
	return spawns
}

// --- Undo surface

// CanUndo reports whether an action is available to undo.
func (d *Document) CanUndo() bool { return d.undoer.CanUndo() }

// CanRedo reports whether an action is available to redo.
func (d *Document) CanRedo() bool { return d.undoer.CanRedo() }

// UndoDescription names the action Undo would revert, or "".
func (d *Document) UndoDescription() string { return d.undoer.UndoDescription() }

// RedoDescription names the action Redo would reapply, or "".
func (d *Document) RedoDescription() string { return d.undoer.RedoDescription() }

// Undo reverts the latest action. It returns the reverted action's
// description and false if there was nothing to undo.
func (d *Document) Undo() (string, bool) {
	if !d.undoer.CanUndo() {
		return "", false
	}
	description := d.undoer.UndoDescription()
	d.undoer.Undo()
	return description, true
}

// Redo reapplies the latest undone action. It returns the reapplied action's
// description and false if there was nothing to redo.
func (d *Document) Redo() (string, bool) {
	if !d.undoer.CanRedo() {
		return "", false
	}
	description := d.undoer.RedoDescription()
	d.undoer.Redo()
	return description, true
}

// Modified reports whether the document differs from its last-saved state.
func (d *Document) Modified() bool { return d.undoer.Modified() }

// SetSavePoint marks the current history position as the saved state. Call
// exactly once per successful save.
func (d *Document) SetSavePoint() { d.undoer.SetSavePoint() }

// ClearHistory drops the undo history, e.g. after loading a document.
func (d *Document) ClearHistory() { d.undoer.Clear() }

// ResumePositions moves the position counter past every loaded transaction
// so newly created ones keep sorting after them. Called after a load, which
// populates the collections directly without recording actions.
func (d *Document) ResumePositions() {
	for _, t := range d.Transactions.All() {
		if t.Position > d.nextPosition {
			d.nextPosition = t.Position
		}
	}
}

func (d *Document) takePosition() int {
	d.nextPosition++
	return d.nextPosition
}
