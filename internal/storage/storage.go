// Package storage persists a ledger document as a directory of CSV files:
// accounts.csv, transactions.csv, splits.csv and schedules.csv.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/document"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/id"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

const (
	accountsFile     = "accounts.csv"
	transactionsFile = "transactions.csv"
	splitsFile       = "splits.csv"
	schedulesFile    = "schedules.csv"
)

// Save writes the document to the ledger directory, overwriting any previous
// contents of the four CSV files.
func Save(dir string, doc *document.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	var txnRows, splitRows [][]string
	writeTxn := func(t *model.Transaction, role, spawnRef string) {
		txnRows = append(txnRows, marshalTransaction(t, role, spawnRef))
		for _, s := range t.Splits {
			splitRows = append(splitRows, marshalSplit(t.ID, s))
		}
	}

	var acctRows [][]string
	for _, a := range doc.Accounts.All() {
		acctRows = append(acctRows, marshalAccount(a))
	}
	for _, t := range doc.Transactions.All() {
		writeTxn(t, roleLedger, "")
	}

	var schedRows [][]string
	for _, s := range doc.Schedules.All() {
		writeTxn(s.Ref, roleTemplate, "")
		// Exception keys are date strings, so a lexical sort keeps the
		// emitted rows in date order and the output byte-stable across
		// saves of the same document.
		keys := make([]string, 0, len(s.Exceptions))
		for key := range s.Exceptions {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var deletedRefs []string
		for _, key := range keys {
			date, err := parseDateKey(key)
			if err != nil {
				return fmt.Errorf("schedule %s: %w", s.ID, err)
			}
			ref := id.FormatSpawnRef(s.ID, date)
			override := s.Exceptions[key]
			if override == nil {
				deletedRefs = append(deletedRefs, ref)
				continue
			}
			writeTxn(override, roleOverride, ref)
		}
		schedRows = append(schedRows, marshalSchedule(s, strings.Join(deletedRefs, ";")))
	}

	files := []struct {
		name   string
		header string
		rows   [][]string
	}{
		{accountsFile, AccountsHeader, acctRows},
		{transactionsFile, TransactionsHeader, txnRows},
		{splitsFile, SplitsHeader, splitRows},
		{schedulesFile, SchedulesHeader, schedRows},
	}
	for _, f := range files {
		if err := writeCSVFile(filepath.Join(dir, f.name), f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a ledger directory back into a fresh document with an empty
// undo history and the save point at the loaded state.
func Load(dir string) (*document.Document, error) {
	doc := document.New()

	acctRecords, err := readCSVFile(filepath.Join(dir, accountsFile))
	if err != nil {
		return nil, err
	}
	accountsByID := make(map[uuid.UUID]*model.Account)
	for i, rec := range acctRecords {
		account, err := unmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", accountsFile, i+2, err)
		}
		accountsByID[account.ID] = account
		doc.Accounts.Add(account)
	}

	txnRecords, err := readCSVFile(filepath.Join(dir, transactionsFile))
	if err != nil {
		return nil, err
	}
	txnsByID := make(map[uuid.UUID]*model.Transaction)
	type pendingOverride struct {
		txn      *model.Transaction
		spawnRef string
	}
	var ledgerTxns []*model.Transaction
	var overrides []pendingOverride
	for i, rec := range txnRecords {
		txn, role, spawnRef, err := unmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", transactionsFile, i+2, err)
		}
		txnsByID[txn.ID] = txn
		switch role {
		case roleLedger:
			ledgerTxns = append(ledgerTxns, txn)
		case roleTemplate:
			// bound via schedules.csv ref_id
		case roleOverride:
			overrides = append(overrides, pendingOverride{txn: txn, spawnRef: spawnRef})
		default:
			return nil, fmt.Errorf("%s row %d: unknown role %q", transactionsFile, i+2, role)
		}
	}

	splitRecords, err := readCSVFile(filepath.Join(dir, splitsFile))
	if err != nil {
		return nil, err
	}
	for i, rec := range splitRecords {
		row, err := unmarshalSplit(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", splitsFile, i+2, err)
		}
		parent, ok := txnsByID[row.parent]
		if !ok {
			return nil, fmt.Errorf("%s row %d: unknown parent transaction %s", splitsFile, i+2, row.parent)
		}
		var account *model.Account
		if row.accountID != uuid.Nil {
			account, ok = accountsByID[row.accountID]
			if !ok {
				return nil, fmt.Errorf("%s row %d: unknown account %s", splitsFile, i+2, row.accountID)
			}
		}
		split := parent.AddSplit(account, row.amount, row.memo)
		split.ReconcileDate = row.reconcileDate
	}

	for _, t := range ledgerTxns {
		doc.Transactions.Add(t)
	}

	schedRecords, err := readCSVFile(filepath.Join(dir, schedulesFile))
	if err != nil {
		return nil, err
	}
	schedulesByID := make(map[uuid.UUID]*model.Schedule)
	for i, rec := range schedRecords {
		row, err := unmarshalSchedule(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", schedulesFile, i+2, err)
		}
		ref, ok := txnsByID[row.refID]
		if !ok {
			return nil, fmt.Errorf("%s row %d: unknown template transaction %s", schedulesFile, i+2, row.refID)
		}
		schedule := &model.Schedule{
			ID:         row.id,
			Ref:        ref,
			Repeat:     row.repeat,
			Every:      row.every,
			Stop:       row.stop,
			Exceptions: make(map[string]*model.Transaction),
		}
		if row.deletedRefs != "" {
			for _, ref := range strings.Split(row.deletedRefs, ";") {
				_, date, err := id.ParseSpawnRef(ref)
				if err != nil {
					return nil, fmt.Errorf("%s row %d: %w", schedulesFile, i+2, err)
				}
				schedule.DeleteSpawnAt(date)
			}
		}
		schedulesByID[schedule.ID] = schedule
		doc.Schedules.Add(schedule)
	}

	for _, o := range overrides {
		scheduleID, date, err := id.ParseSpawnRef(o.spawnRef)
		if err != nil {
			return nil, fmt.Errorf("%s: override %s: %w", transactionsFile, o.txn.ID, err)
		}
		schedule, ok := schedulesByID[scheduleID]
		if !ok {
			return nil, fmt.Errorf("%s: override %s references unknown schedule %s", transactionsFile, o.txn.ID, scheduleID)
		}
		schedule.OverrideSpawnAt(date, o.txn)
	}

	doc.ResumePositions()
	doc.SetSavePoint()
	return doc, nil
}

// Exists reports whether dir looks like a ledger directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, accountsFile))
	return err == nil
}

func writeCSVFile(path, header string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing %s header: %w", filepath.Base(path), err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", filepath.Base(path), i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSVFile returns the data rows (header skipped) of a ledger CSV. A
// missing file reads as empty.
func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return readCSV(f, filepath.Base(path))
}

func readCSV(r io.Reader, name string) ([][]string, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func parseDateKey(key string) (time.Time, error) {
	date, err := time.ParseInLocation(model.DateKey, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid exception date %q: %w", key, err)
	}
	return date, nil
}
