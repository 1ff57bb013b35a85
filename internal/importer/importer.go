// Package importer turns bank CSV exports into ledger transactions. Parsers
// are looked up by format name; the whole parsed batch lands in the document
// as one undoable action.
package importer

import (
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// Row is one parsed bank statement line. Amount is signed from the bank
// account's point of view: negative = money out.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}

// Parser converts a bank CSV file into rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.parsers))
	for key := range r.parsers {
		formats = append(formats, key)
	}
	return formats
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(GenericParser{})
	return r
}

// Transactions converts parsed rows into ledger transactions against the
// target bank account. The counter-split is left unassigned; categorizing it
// is the user's next step.
func Transactions(rows []Row, target *model.Account) []*model.Transaction {
	txns := make([]*model.Transaction, 0, len(rows))
	for _, row := range rows {
		t := model.NewTransaction(row.Date, row.Description)
		t.Notes = row.Reference
		t.AddSplit(target, row.Amount, "")
		t.AddSplit(nil, row.Amount.Neg(), "")
		txns = append(txns, t)
	}
	return txns
}
