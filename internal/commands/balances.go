package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBalancesCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runBalances(l)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	return cmd
}

func runBalances(l *ledger) error {
	totals := make(map[string]decimal.Decimal)
	for _, a := range l.doc.Accounts.Sorted() {
		balance := l.doc.Transactions.BalanceOf(a)
		totals[a.Currency] = totals[a.Currency].Add(balance)
		fmt.Printf("%-10s %-30s %12s %s\n", a.Type, a.Name, balance, a.Currency)
	}
	// A balanced ledger with no unassigned splits sums to zero per currency.
	for currency, total := range totals {
		fmt.Printf("%41s %12s %s\n", "total", total, currency)
	}
	return nil
}
