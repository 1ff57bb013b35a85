package model

import "github.com/google/uuid"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// DisplayOrder returns the sort rank used when listing accounts grouped by type.
func (t AccountType) DisplayOrder() int {
	switch t {
	case AccountTypeAsset:
		return 0
	case AccountTypeLiability:
		return 1
	case AccountTypeIncome:
		return 2
	case AccountTypeExpense:
		return 3
	default:
		return 4
	}
}

// Account is one account in the ledger. Accounts are referenced by pointer
// throughout the document; two accounts are the same account only if they are
// the same pointer.
type Account struct {
	ID            uuid.UUID
	Name          string
	Type          AccountType
	Currency      string
	AccountNumber string
	Group         string
	Notes         string
	Inactive      bool
}

// NewAccount creates an account with a fresh ID.
func NewAccount(name string, accountType AccountType, currency string) *Account {
	return &Account{
		ID:       uuid.New(),
		Name:     name,
		Type:     accountType,
		Currency: currency,
	}
}

// Snapshot returns a copy of the account covering every field that affects
// undo fidelity.
func (a *Account) Snapshot() *Account {
	cp := *a
	return &cp
}

// RestoreFrom overwrites the account's state with the state held in src.
func (a *Account) RestoreFrom(src *Account) {
	*a = *src
}
