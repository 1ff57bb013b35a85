// Package document holds the live ledger state of one open document: the
// account, transaction and schedule collections, and the operation layer that
// mutates them through recorded, undoable actions.
package document

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// AccountList is the document's set of accounts. Storage order is insertion
// order; Sorted gives the display order (by type, then name).
type AccountList struct {
	accounts []*model.Account
}

// NewAccountList creates an empty account list.
func NewAccountList() *AccountList {
	return &AccountList{}
}

// Add inserts an account. Adding an account already present is a no-op.
func (l *AccountList) Add(a *model.Account) {
	if l.Contains(a) {
		return
	}
	l.accounts = append(l.accounts, a)
}

// Remove deletes an account. Removing an absent account is a no-op.
func (l *AccountList) Remove(a *model.Account) {
	for i, m := range l.accounts {
		if m == a {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			return
		}
	}
}

// Contains reports whether the account is in the list.
func (l *AccountList) Contains(a *model.Account) bool {
	for _, m := range l.accounts {
		if m == a {
			return true
		}
	}
	return false
}

// Find returns the account with the given name, case-insensitively, or nil.
func (l *AccountList) Find(name string) *model.Account {
	for _, a := range l.accounts {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

// All returns the accounts in storage order.
func (l *AccountList) All() []*model.Account {
	return l.accounts
}

// Sorted returns the accounts in display order.
func (l *AccountList) Sorted() []*model.Account {
	out := make([]*model.Account, len(l.accounts))
	copy(out, l.accounts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type.DisplayOrder() < out[j].Type.DisplayOrder()
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Len returns the number of accounts.
func (l *AccountList) Len() int {
	return len(l.accounts)
}

// TransactionList is the document's ordered transaction collection, sorted by
// date with Position breaking ties. It memoizes per-account ending balances;
// ClearCache must be called after any mutation.
type TransactionList struct {
	txns     []*model.Transaction
	balances map[uuid.UUID]decimal.Decimal
}

// NewTransactionList creates an empty transaction list.
func NewTransactionList() *TransactionList {
	return &TransactionList{}
}

// Add inserts a transaction at its date-ordered position.
func (l *TransactionList) Add(t *model.Transaction) {
	l.txns = append(l.txns, t)
	sort.SliceStable(l.txns, func(i, j int) bool {
		if !l.txns[i].Date.Equal(l.txns[j].Date) {
			return l.txns[i].Date.Before(l.txns[j].Date)
		}
		return l.txns[i].Position < l.txns[j].Position
	})
}

// Remove deletes a transaction. Removing an absent transaction is a no-op.
func (l *TransactionList) Remove(t *model.Transaction) {
	for i, m := range l.txns {
		if m == t {
			l.txns = append(l.txns[:i], l.txns[i+1:]...)
			return
		}
	}
}

// Contains reports whether the transaction is in the list.
func (l *TransactionList) Contains(t *model.Transaction) bool {
	for _, m := range l.txns {
		if m == t {
			return true
		}
	}
	return false
}

// All returns the transactions in date order.
func (l *TransactionList) All() []*model.Transaction {
	return l.txns
}

// Len returns the number of transactions.
func (l *TransactionList) Len() int {
	return len(l.txns)
}

// ClearCache drops memoized balances. Any mutation of the list or of a member
// transaction must be followed by a call to this.
func (l *TransactionList) ClearCache() {
	l.balances = nil
}

// BalanceOf returns the account's ending balance over the whole list.
func (l *TransactionList) BalanceOf(a *model.Account) decimal.Decimal {
	if l.balances == nil {
		l.balances = make(map[uuid.UUID]decimal.Decimal)
		for _, t := range l.txns {
			for _, s := range t.Splits {
				if s.Account == nil {
					continue
				}
				l.balances[s.Account.ID] = l.balances[s.Account.ID].Add(s.Amount)
			}
		}
	}
	return l.balances[a.ID]
}

// ScheduleList is the document's recurring schedules: a plain ordered list
// mutated only by whole-item add and remove.
type ScheduleList struct {
	schedules []*model.Schedule
}

// NewScheduleList creates an empty schedule list.
func NewScheduleList() *ScheduleList {
	return &ScheduleList{}
}

// Add appends a schedule.
func (l *ScheduleList) Add(s *model.Schedule) {
	l.schedules = append(l.schedules, s)
}

// Remove deletes a schedule. Removing an absent schedule is a no-op.
func (l *ScheduleList) Remove(s *model.Schedule) {
	for i, m := range l.schedules {
		if m == s {
			l.schedules = append(l.schedules[:i], l.schedules[i+1:]...)
			return
		}
	}
}

// Contains reports whether the schedule is in the list.
func (l *ScheduleList) Contains(s *model.Schedule) bool {
	for _, m := range l.schedules {
		if m == s {
			return true
		}
	}
	return false
}

// All returns the schedules in insertion order.
func (l *ScheduleList) All() []*model.Schedule {
	return l.schedules
}

// Len returns the number of schedules.
func (l *ScheduleList) Len() int {
	return len(l.schedules)
}
