package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Split is one side of a transaction. A nil Account means the amount is
// unassigned (typical right after a bank import).
type Split struct {
	Transaction   *Transaction // owning transaction
	Account       *Account
	Amount        decimal.Decimal // positive = debit into Account
	Memo          string
	ReconcileDate time.Time // zero = not reconciled
}

// Transaction is one ledger transaction with two or more splits.
//
// A transaction materialized from a recurring Schedule is called a spawn;
// spawns carry the schedule they came from and the occurrence date. Spawns
// never live in the document's transaction list, they are regenerated from
// their schedule on demand.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Payee       string
	ChequeNo    string
	Notes       string
	Position    int // tie-breaker for same-date ordering
	Splits      []*Split

	SpawnOf   *Schedule // nil for ordinary transactions
	SpawnDate time.Time // occurrence date, set only for spawns
}

// NewTransaction creates an empty transaction with a fresh ID.
func NewTransaction(date time.Time, description string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		Date:        date,
		Description: description,
	}
}

// NewSimpleTransaction creates a balanced two-split transaction moving amount
// from one account into another. Either account may be nil (unassigned).
func NewSimpleTransaction(date time.Time, description string, from, to *Account, amount decimal.Decimal) *Transaction {
	t := NewTransaction(date, description)
	t.AddSplit(to, amount, "")
	t.AddSplit(from, amount.Neg(), "")
	return t
}

// AddSplit appends a split owned by this transaction.
func (t *Transaction) AddSplit(account *Account, amount decimal.Decimal, memo string) *Split {
	s := &Split{Transaction: t, Account: account, Amount: amount, Memo: memo}
	t.Splits = append(t.Splits, s)
	return s
}

// IsSpawn reports whether the transaction was materialized from a schedule.
func (t *Transaction) IsSpawn() bool {
	return t.SpawnOf != nil
}

// Amount returns the transaction's magnitude: the sum of its positive splits.
func (t *Transaction) Amount() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		if s.Amount.IsPositive() {
			total = total.Add(s.Amount)
		}
	}
	return total
}

// Balance returns the sum of all splits. Zero for a balanced transaction.
func (t *Transaction) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// IsBalanced reports whether debits and credits cancel out.
func (t *Transaction) IsBalanced() bool {
	return t.Balance().IsZero()
}

// AffectedAccounts returns the distinct non-nil accounts touched by the
// transaction's splits.
func (t *Transaction) AffectedAccounts() []*Account {
	var accounts []*Account
	seen := make(map[*Account]bool)
	for _, s := range t.Splits {
		if s.Account != nil && !seen[s.Account] {
			seen[s.Account] = true
			accounts = append(accounts, s.Account)
		}
	}
	return accounts
}

// Snapshot returns a deep copy of the transaction. Splits are copied;
// referenced accounts and schedules are not (they are shared, not owned).
func (t *Transaction) Snapshot() *Transaction {
	cp := *t
	cp.Splits = copySplits(&cp, t.Splits)
	return &cp
}

// RestoreFrom overwrites the transaction's state with the state held in src.
// Splits are deep-copied from src so the two transactions never share them.
func (t *Transaction) RestoreFrom(src *Transaction) {
	splits := copySplits(t, src.Splits)
	*t = *src
	t.Splits = splits
}

func copySplits(owner *Transaction, splits []*Split) []*Split {
	if splits == nil {
		return nil
	}
	out := make([]*Split, len(splits))
	for i, s := range splits {
		cp := *s
		cp.Transaction = owner
		out[i] = &cp
	}
	return out
}
