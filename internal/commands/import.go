package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/importer"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/oplog"
)

func newImportCommand() *cobra.Command {
	var dir string
	var account string
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runImport(l, args[0], account, format)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&account, "account", "", "bank account the file belongs to (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&format, "format", "generic", "bank file format")

	return cmd
}

func runImport(l *ledger, path, account, format string) error {
	registry := importer.DefaultRegistry()
	parser := registry.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q (have: %s)", format, strings.Join(registry.Formats(), ", "))
	}
	target := l.doc.Accounts.Find(account)
	if target == nil {
		return fmt.Errorf("no account named %q", account)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s contains no transactions", path)
	}

	txns := importer.Transactions(rows, target)
	l.doc.ImportTransactions(nil, txns)

	// The batch landed as one action, so a validation failure rolls the
	// whole import back in a single undo.
	for _, t := range txns {
		if t.Amount().IsZero() {
			description, _ := l.doc.Undo()
			entry := oplog.Entry{
				Timestamp:   time.Now(),
				Op:          oplog.OpUndo,
				Description: description,
				Details:     fmt.Sprintf("rejected %s", path),
			}
			if logErr := oplog.Append(l.dir, []oplog.Entry{entry}); logErr != nil {
				return logErr
			}
			return fmt.Errorf("rejected import: zero-amount transaction %q on %s", t.Description, t.Date.Format(l.cfg.Format.DateFormat))
		}
	}

	if err := l.save([]string{l.doc.UndoDescription()}); err != nil {
		return err
	}
	fmt.Printf("Imported %d transactions into %q\n", len(txns), target.Name)
	return nil
}
