package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/config"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/document"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/gitops"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/storage"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, name, currency, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "USD", "default currency")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and auto-commit on save")

	return cmd
}

func runInit(dir, name, currency string, useGit bool) error {
	if storage.Exists(dir) {
		return fmt.Errorf("ledger already exists at %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg := config.Default(name, currency)
	cfg.Git.AutoCommit = useGit
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return err
	}

	// An empty document saved up front gives every later command the same
	// load path.
	if err := storage.Save(dir, document.New()); err != nil {
		return err
	}

	if useGit {
		if err := gitops.Init(dir); err != nil {
			return err
		}
		if _, err := gitops.CommitSave(dir, "initialize ledger", cfg.Git.AuthorName, cfg.Git.AuthorEmail); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized ledger %q at %s\n", name, dir)
	return nil
}
