package undo

import "github.com/ledgerdesk-dev/ledgerdesk/internal/model"

// AccountCollection is the handle the engine uses to mutate the document's
// live accounts.
type AccountCollection interface {
	Add(*model.Account)
	Remove(*model.Account)
}

// TransactionCollection is the handle the engine uses to mutate the
// document's live transactions. ClearCache invalidates derived views such as
// running balances after any mutation.
type TransactionCollection interface {
	Add(*model.Transaction)
	Remove(*model.Transaction)
	ClearCache()
}

// ScheduleCollection is the membership handle for the document's recurring
// schedules. Schedule add/delete reversal is membership-only; content changes
// go through (live, backup) pairs like any other entity.
type ScheduleCollection interface {
	Add(*model.Schedule)
	Remove(*model.Schedule)
}

// Step is the replay/reverse object derived from an Action at record time,
// the last point at which the action's backups are still the true pre-edit
// state. It applies the action's effect (redo) or its inverse (undo) to the
// live collections.
//
// Changed entities are restored by swapping live and backup state: after an
// undo the backup holds the post-edit state, so redo is the same swap again.
// One snapshot encodes both directions.
type Step struct {
	addedAccounts   []*model.Account
	deletedAccounts []*model.Account
	changedAccounts []Change[*model.Account]

	addedTransactions   []*model.Transaction
	deletedTransactions []*model.Transaction
	changedTransactions []Change[*model.Transaction]

	changedSchedules []Change[*model.Schedule]
}

func newStep(a *Action) *Step {
	return &Step{
		addedAccounts:       setMembers(a.AddedAccounts),
		deletedAccounts:     setMembers(a.DeletedAccounts),
		changedAccounts:     a.changedAccounts,
		addedTransactions:   setMembers(a.AddedTransactions),
		deletedTransactions: setMembers(a.DeletedTransactions),
		changedTransactions: a.changedTransactions,
		changedSchedules:    a.changedSchedules,
	}
}

// Undo restores every changed entity to its backup, removes added entities
// from the live collections and re-inserts deleted ones.
func (s *Step) Undo(accounts AccountCollection, transactions TransactionCollection) {
	swapChanges(s.changedAccounts)
	swapChanges(s.changedTransactions)
	swapChanges(s.changedSchedules)
	for _, a := range s.addedAccounts {
		accounts.Remove(a)
	}
	for _, a := range s.deletedAccounts {
		accounts.Add(a)
	}
	for _, t := range s.addedTransactions {
		transactions.Remove(t)
	}
	for _, t := range s.deletedTransactions {
		transactions.Add(t)
	}
}

// Redo reapplies the action: changed entities return to their post-edit
// state, added entities are re-inserted and deleted ones removed again.
func (s *Step) Redo(accounts AccountCollection, transactions TransactionCollection) {
	swapChanges(s.changedAccounts)
	swapChanges(s.changedTransactions)
	swapChanges(s.changedSchedules)
	for _, a := range s.addedAccounts {
		accounts.Add(a)
	}
	for _, a := range s.deletedAccounts {
		accounts.Remove(a)
	}
	for _, t := range s.addedTransactions {
		transactions.Add(t)
	}
	for _, t := range s.deletedTransactions {
		transactions.Remove(t)
	}
}

type restorable[T any] interface {
	Snapshot() T
	RestoreFrom(T)
}

func swapChanges[T restorable[T]](changes []Change[T]) {
	for _, c := range changes {
		tmp := c.Live.Snapshot()
		c.Live.RestoreFrom(c.Backup)
		c.Backup.RestoreFrom(tmp)
	}
}

func setMembers[T comparable](set EntitySet[T]) []T {
	if len(set) == 0 {
		return nil
	}
	members := make([]T, 0, len(set))
	for v := range set {
		members = append(members, v)
	}
	return members
}
