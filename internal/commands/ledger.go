package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/config"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/document"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/gitops"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/oplog"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/storage"
)

// ledger bundles an open document with its directory and settings for the
// duration of one CLI invocation.
type ledger struct {
	dir string
	cfg *config.Config
	doc *document.Document
}

func openLedger(dir string) (*ledger, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if !storage.Exists(absDir) {
		return nil, fmt.Errorf("no ledger found at %s (run init first)", absDir)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, err
	}
	doc, err := storage.Load(absDir)
	if err != nil {
		return nil, err
	}
	return &ledger{dir: absDir, cfg: cfg, doc: doc}, nil
}

// save persists the document, marks the save point, logs every action
// applied in this invocation and optionally commits the directory.
func (l *ledger) save(descriptions []string) error {
	if err := storage.Save(l.dir, l.doc); err != nil {
		return err
	}
	l.doc.SetSavePoint()

	now := time.Now()
	entries := make([]oplog.Entry, 0, len(descriptions)+1)
	for _, d := range descriptions {
		entries = append(entries, oplog.Entry{Timestamp: now, Op: oplog.OpRecord, Description: d})
	}
	entries = append(entries, oplog.Entry{Timestamp: now, Op: oplog.OpSave, Description: "ledger saved"})
	if err := oplog.Append(l.dir, entries); err != nil {
		return err
	}

	if l.cfg.Git.AutoCommit && gitops.IsRepo(l.dir) {
		message := "save ledger"
		if len(descriptions) > 0 {
			message = descriptions[len(descriptions)-1]
		}
		if _, err := gitops.CommitSave(l.dir, message, l.cfg.Git.AuthorName, l.cfg.Git.AuthorEmail); err != nil {
			return err
		}
	}
	return nil
}
