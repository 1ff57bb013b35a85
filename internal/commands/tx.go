package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

func newTxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and list transactions",
	}
	cmd.AddCommand(newTxAddCommand())
	cmd.AddCommand(newTxListCommand())
	return cmd
}

func newTxAddCommand() *cobra.Command {
	var dir string
	var dateStr string
	var from string
	var to string
	var amountStr string
	var payee string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runTxAdd(l, args[0], dateStr, from, to, amountStr, payee)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (defaults to today)")
	cmd.Flags().StringVar(&from, "from", "", "account money moves out of (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "account money moves into (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&payee, "payee", "", "payee")

	return cmd
}

func runTxAdd(l *ledger, description, dateStr, from, to, amountStr, payee string) error {
	date, err := parseLedgerDate(l, dateStr)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	fromAccount := l.doc.Accounts.Find(from)
	if fromAccount == nil {
		return fmt.Errorf("no account named %q", from)
	}
	toAccount := l.doc.Accounts.Find(to)
	if toAccount == nil {
		return fmt.Errorf("no account named %q", to)
	}

	txn := l.doc.NewTransaction(date, description, fromAccount, toAccount, amount)
	txn.Payee = payee

	if err := l.save([]string{l.doc.UndoDescription()}); err != nil {
		return err
	}
	fmt.Printf("Added %s %s  %s -> %s\n", date.Format(l.cfg.Format.DateFormat), amount, fromAccount.Name, toAccount.Name)
	return nil
}

func newTxListCommand() *cobra.Command {
	var dir string
	var account string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions in date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runTxList(l, account)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&account, "account", "", "only transactions touching this account")
	return cmd
}

func runTxList(l *ledger, account string) error {
	var only *model.Account
	if account != "" {
		only = l.doc.Accounts.Find(account)
		if only == nil {
			return fmt.Errorf("no account named %q", account)
		}
	}

	for _, t := range l.doc.Transactions.All() {
		if only != nil && !touchesAccount(t, only) {
			continue
		}
		fmt.Printf("%s  %-30s %10s\n", t.Date.Format(l.cfg.Format.DateFormat), t.Description, t.Amount())
	}
	return nil
}

func touchesAccount(t *model.Transaction, account *model.Account) bool {
	for _, a := range t.AffectedAccounts() {
		if a == account {
			return true
		}
	}
	return false
}

// parseLedgerDate parses a date in the ledger's configured format. An empty
// string means today.
func parseLedgerDate(l *ledger, s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.ParseInLocation(l.cfg.Format.DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return date, nil
}
