// Package undo records document mutations as reversible actions and manages
// the undo/redo history of a ledger document.
//
// A logical user operation is captured as an Action: sets of added and
// deleted entities, and (live, backup) pairs for entities changed in place.
// The document layer registers backups before mutating, then hands the
// completed Action to the Undoer, which derives a Step and appends it to
// history.
package undo

import "github.com/ledgerdesk-dev/ledgerdesk/internal/model"

// EntitySet is a set of entities keyed by pointer identity.
type EntitySet[T comparable] map[T]struct{}

// Add inserts v into the set.
func (s EntitySet[T]) Add(v T) {
	s[v] = struct{}{}
}

// Contains reports whether v is in the set.
func (s EntitySet[T]) Contains(v T) bool {
	_, ok := s[v]
	return ok
}

// Change pairs a live entity with the backup of its state taken right before
// the first mutation recorded against it.
type Change[T any] struct {
	Live   T
	Backup T
}

// Action is the net effect of one user-visible operation on the document's
// three entity collections.
//
// The Added and Deleted sets are populated directly by the caller. Within a
// single Action an entity must appear in at most one of added/changed/deleted
// for its collection; in particular an entity added by the operation must not
// also be registered as changed, it is new. Changed entities are registered
// through the Change* methods, which take the backup copies.
type Action struct {
	Description string

	AddedAccounts   EntitySet[*model.Account]
	DeletedAccounts EntitySet[*model.Account]

	AddedTransactions   EntitySet[*model.Transaction]
	DeletedTransactions EntitySet[*model.Transaction]

	AddedSchedules   EntitySet[*model.Schedule]
	DeletedSchedules EntitySet[*model.Schedule]

	changedAccounts     []Change[*model.Account]
	changedTransactions []Change[*model.Transaction]
	changedSchedules    []Change[*model.Schedule]

	// assigned by Undoer.Record
	seq  uint64
	step *Step
}

// NewAction creates an empty action. The description is shown to the user in
// undo/redo menu items ("Undo Add Transaction").
func NewAction(description string) *Action {
	return &Action{
		Description:         description,
		AddedAccounts:       make(EntitySet[*model.Account]),
		DeletedAccounts:     make(EntitySet[*model.Account]),
		AddedTransactions:   make(EntitySet[*model.Transaction]),
		DeletedTransactions: make(EntitySet[*model.Transaction]),
		AddedSchedules:      make(EntitySet[*model.Schedule]),
		DeletedSchedules:    make(EntitySet[*model.Schedule]),
	}
}

// ChangeAccounts records imminent changes to accounts. Each account's backup
// is taken now; registering an account a second time keeps the first backup.
func (a *Action) ChangeAccounts(accounts []*model.Account) {
	for _, account := range accounts {
		if hasChange(a.changedAccounts, account) {
			continue
		}
		a.changedAccounts = append(a.changedAccounts, Change[*model.Account]{
			Live:   account,
			Backup: account.Snapshot(),
		})
	}
}

// ChangeSchedule records an imminent change to a schedule, with the same
// first-backup-wins rule as ChangeAccounts.
func (a *Action) ChangeSchedule(schedule *model.Schedule) {
	if hasChange(a.changedSchedules, schedule) {
		return
	}
	a.changedSchedules = append(a.changedSchedules, Change[*model.Schedule]{
		Live:   schedule,
		Backup: schedule.Snapshot(),
	})
}

// ChangeTransactions records imminent changes to transactions. A spawn is not
// recorded itself: editing it is schedule-side bookkeeping, so the owning
// schedule(s) found in schedules are registered as changed instead.
func (a *Action) ChangeTransactions(transactions []*model.Transaction, schedules []*model.Schedule) {
	for _, t := range transactions {
		if !t.IsSpawn() {
			if hasChange(a.changedTransactions, t) {
				continue
			}
			a.changedTransactions = append(a.changedTransactions, Change[*model.Transaction]{
				Live:   t,
				Backup: t.Snapshot(),
			})
			continue
		}
		for _, schedule := range schedules {
			if schedule.ContainsSpawn(t) {
				a.ChangeSchedule(schedule)
			}
		}
	}
}

// ChangeEntries records imminent changes to splits by registering their owning
// transactions.
func (a *Action) ChangeEntries(splits []*model.Split, schedules []*model.Schedule) {
	var transactions []*model.Transaction
	seen := make(map[*model.Transaction]bool)
	for _, s := range splits {
		if s.Transaction == nil || seen[s.Transaction] {
			continue
		}
		seen[s.Transaction] = true
		transactions = append(transactions, s.Transaction)
	}
	a.ChangeTransactions(transactions, schedules)
}

// ChangedAccounts returns the registered (live, backup) account pairs in
// registration order.
func (a *Action) ChangedAccounts() []Change[*model.Account] {
	return a.changedAccounts
}

// ChangedTransactions returns the registered (live, backup) transaction pairs
// in registration order.
func (a *Action) ChangedTransactions() []Change[*model.Transaction] {
	return a.changedTransactions
}

// ChangedSchedules returns the registered (live, backup) schedule pairs in
// registration order.
func (a *Action) ChangedSchedules() []Change[*model.Schedule] {
	return a.changedSchedules
}

func hasChange[T comparable](changes []Change[T], entity T) bool {
	for _, c := range changes {
		if c.Live == entity {
			return true
		}
	}
	return false
}
