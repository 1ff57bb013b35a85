// Package oplog keeps an append-only CSV audit trail of the operations
// applied to a ledger: recorded actions, undone actions and saves.
package oplog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Op is the kind of event logged.
type Op string

const (
	OpRecord Op = "record"
	OpUndo   Op = "undo"
	OpSave   Op = "save"
)

// Entry is one row in the operation log.
type Entry struct {
	Timestamp   time.Time
	Op          Op
	Description string
	Details     string
}

// Header is the CSV header for oplog.csv.
const Header = "timestamp,op,description,details"

const (
	numFields = 4
	logFile   = "oplog.csv"

	colTimestamp   = 0
	colOp          = 1
	colDescription = 2
	colDetails     = 3
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colOp] = string(e.Op)
	row[colDescription] = e.Description
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	return Entry{
		Timestamp:   ts,
		Op:          Op(record[colOp]),
		Description: record[colDescription],
		Details:     record[colDetails],
	}, nil
}

// Append writes entries to <dir>/oplog.csv, creating the file and header if
// needed.
func Append(dir string, entries []Entry) error {
	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening oplog: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write([]string{"timestamp", "op", "description", "details"}); err != nil {
			return fmt.Errorf("writing oplog header: %w", err)
		}
	}
	for _, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing oplog entry: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/oplog.csv. A missing log reads as
// empty.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening oplog: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading oplog: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
