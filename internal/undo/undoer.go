package undo

// Undoer manages the undo/redo history of one document.
//
// It holds the recorded actions and a cursor kept as a negative offset from
// the end of the list: -1 means the most recently recorded action is the next
// one to be undone, more negative values mean further back in history.
//
// The Undoer references the document's live collections, it never copies
// them. It performs no locking: it is built for a single-threaded UI event
// loop where document mutations and undo operations are never concurrent.
type Undoer struct {
	accounts     AccountCollection
	transactions TransactionCollection
	schedules    ScheduleCollection

	actions []*Action
	index   int

	// sequence number of the action recorded when the document was last
	// saved; 0 = never saved.
	savePoint uint64
	nextSeq   uint64
}

// New creates an Undoer bound to a document's live collections.
func New(accounts AccountCollection, transactions TransactionCollection, schedules ScheduleCollection) *Undoer {
	return &Undoer{
		accounts:     accounts,
		transactions: transactions,
		schedules:    schedules,
		index:        -1,
	}
}

// CanUndo reports whether at least one recorded action has not been undone.
func (u *Undoer) CanUndo() bool {
	return -u.index <= len(u.actions)
}

// CanRedo reports whether the cursor has been moved back from the tip by an
// undo that no later recording has superseded.
func (u *Undoer) CanRedo() bool {
	return u.index < -1
}

// UndoDescription returns the description of the action that Undo would
// revert, or "" if there is none.
func (u *Undoer) UndoDescription() string {
	if !u.CanUndo() {
		return ""
	}
	return u.actions[len(u.actions)+u.index].Description
}

// RedoDescription returns the description of the action that Redo would
// reapply, or "" if there is none.
func (u *Undoer) RedoDescription() string {
	if !u.CanRedo() {
		return ""
	}
	return u.actions[len(u.actions)+u.index+1].Description
}

// Record derives the action's Step and appends the action to history. If the
// cursor was moved back by undos, every action past it is discarded first:
// recording invalidates the redo tail, history never branches.
//
// Record must be called synchronously with the completed operation, while the
// action's backups are still the true pre-edit state.
func (u *Undoer) Record(a *Action) {
	u.nextSeq++
	a.seq = u.nextSeq
	a.step = newStep(a)
	if u.index < -1 {
		u.actions = u.actions[:len(u.actions)+u.index+1]
	}
	u.actions = append(u.actions, a)
	u.index = -1
}

// Undo reverts the action at the cursor and moves the cursor one step into
// the past. Callers must check CanUndo first; calling Undo without it is a
// programming error and panics.
func (u *Undoer) Undo() {
	if !u.CanUndo() {
		panic("undo: nothing to undo")
	}
	a := u.actions[len(u.actions)+u.index]
	a.step.Undo(u.accounts, u.transactions)
	for s := range a.DeletedSchedules {
		u.schedules.Add(s)
	}
	for s := range a.AddedSchedules {
		u.schedules.Remove(s)
	}
	u.transactions.ClearCache()
	u.index--
}

// Redo reapplies the action just ahead of the cursor and moves the cursor one
// step toward the present. Callers must check CanRedo first; calling Redo
// without it is a programming error and panics.
func (u *Undoer) Redo() {
	if !u.CanRedo() {
		panic("undo: nothing to redo")
	}
	a := u.actions[len(u.actions)+u.index+1]
	a.step.Redo(u.accounts, u.transactions)
	for s := range a.AddedSchedules {
		u.schedules.Add(s)
	}
	for s := range a.DeletedSchedules {
		u.schedules.Remove(s)
	}
	u.transactions.ClearCache()
	u.index++
}

// Clear drops all history and returns the cursor to the tip. The save point
// is left untouched, so a document cleared after being saved reads as
// modified until the next SetSavePoint.
func (u *Undoer) Clear() {
	u.actions = nil
	u.index = -1
}

// SetSavePoint marks the action currently at the tip as the reference for
// "unmodified". Call it whenever the document is saved.
func (u *Undoer) SetSavePoint() {
	if len(u.actions) > 0 {
		u.savePoint = u.actions[len(u.actions)-1].seq
	} else {
		u.savePoint = 0
	}
}

// Modified reports whether the document differs from its last-saved state:
// true unless the action at the cursor is the save-point action, or there is
// no action at the cursor and no save point.
func (u *Undoer) Modified() bool {
	if u.CanUndo() {
		return u.actions[len(u.actions)+u.index].seq != u.savePoint
	}
	return u.savePoint != 0
}
