package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/document"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountsAddCommand())
	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsRemoveCommand())
	return cmd
}

func newAccountsAddCommand() *cobra.Command {
	var dir string
	var accountType string
	var currency string
	var group string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runAccountsAdd(l, args[0], accountType, currency, group)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&accountType, "type", "asset", "account type (asset, liability, income, expense)")
	cmd.Flags().StringVar(&currency, "currency", "", "account currency (defaults to the ledger currency)")
	cmd.Flags().StringVar(&group, "group", "", "display group")

	return cmd
}

func runAccountsAdd(l *ledger, name, accountType, currency, group string) error {
	parsed, err := parseAccountType(accountType)
	if err != nil {
		return err
	}
	if currency == "" {
		currency = l.cfg.Ledger.DefaultCurrency
	}

	account, err := l.doc.NewAccount(name, parsed, currency)
	if err != nil {
		return err
	}
	if group != "" {
		g := group
		if err := l.doc.ChangeAccount(account, document.AccountEdit{Group: &g}); err != nil {
			return err
		}
	}

	if err := l.save([]string{l.doc.UndoDescription()}); err != nil {
		return err
	}
	fmt.Printf("Added %s account %q\n", parsed, name)
	return nil
}

func newAccountsListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			for _, a := range l.doc.Accounts.Sorted() {
				marker := ""
				if a.Inactive {
					marker = " (inactive)"
				}
				fmt.Printf("%-10s %-30s %s%s\n", a.Type, a.Name, a.Currency, marker)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	return cmd
}

func newAccountsRemoveCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runAccountsRemove(l, args[0])
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	return cmd
}

func runAccountsRemove(l *ledger, name string) error {
	account := l.doc.Accounts.Find(name)
	if account == nil {
		return fmt.Errorf("no account named %q", name)
	}
	l.doc.DeleteAccounts([]*model.Account{account})
	if err := l.save([]string{l.doc.UndoDescription()}); err != nil {
		return err
	}
	fmt.Printf("Removed account %q\n", account.Name)
	return nil
}

func parseAccountType(s string) (model.AccountType, error) {
	switch model.AccountType(s) {
	case model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeIncome, model.AccountTypeExpense:
		return model.AccountType(s), nil
	}
	return "", fmt.Errorf("unknown account type %q (want asset, liability, income or expense)", s)
}
