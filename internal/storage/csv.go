package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

const dateFormat = "2006-01-02"

// AccountsHeader is the CSV header for accounts.csv.
const AccountsHeader = "id,name,type,currency,account_number,group,notes,inactive"

const (
	accountNumFields = 8
	colAcctID        = 0
	colAcctName      = 1
	colAcctType      = 2
	colAcctCurrency  = 3
	colAcctNumber    = 4
	colAcctGroup     = 5
	colAcctNotes     = 6
	colAcctInactive  = 7
)

func marshalAccount(a *model.Account) []string {
	row := make([]string, accountNumFields)
	row[colAcctID] = a.ID.String()
	row[colAcctName] = a.Name
	row[colAcctType] = string(a.Type)
	row[colAcctCurrency] = a.Currency
	row[colAcctNumber] = a.AccountNumber
	row[colAcctGroup] = a.Group
	row[colAcctNotes] = a.Notes
	row[colAcctInactive] = strconv.FormatBool(a.Inactive)
	return row
}

func unmarshalAccount(record []string) (*model.Account, error) {
	if len(record) != accountNumFields {
		return nil, fmt.Errorf("expected %d fields, got %d", accountNumFields, len(record))
	}
	accountID, err := uuid.Parse(record[colAcctID])
	if err != nil {
		return nil, fmt.Errorf("parsing account ID %q: %w", record[colAcctID], err)
	}
	inactive, err := strconv.ParseBool(record[colAcctInactive])
	if err != nil {
		return nil, fmt.Errorf("parsing inactive flag %q: %w", record[colAcctInactive], err)
	}
	return &model.Account{
		ID:            accountID,
		Name:          record[colAcctName],
		Type:          model.AccountType(record[colAcctType]),
		Currency:      record[colAcctCurrency],
		AccountNumber: record[colAcctNumber],
		Group:         record[colAcctGroup],
		Notes:         record[colAcctNotes],
		Inactive:      inactive,
	}, nil
}

// TransactionsHeader is the CSV header for transactions.csv. The role column
// distinguishes ledger transactions from schedule templates and exception
// overrides; spawn_ref is set only for overrides.
const TransactionsHeader = "id,date,description,payee,cheque_no,notes,position,role,spawn_ref"

const (
	roleLedger   = "ledger"
	roleTemplate = "template"
	roleOverride = "override"
)

const (
	txnNumFields   = 9
	colTxnID       = 0
	colTxnDate     = 1
	colTxnDesc     = 2
	colTxnPayee    = 3
	colTxnCheque   = 4
	colTxnNotes    = 5
	colTxnPosition = 6
	colTxnRole     = 7
	colTxnSpawnRef = 8
)

func marshalTransaction(t *model.Transaction, role, spawnRef string) []string {
	row := make([]string, txnNumFields)
	row[colTxnID] = t.ID.String()
	row[colTxnDate] = t.Date.Format(dateFormat)
	row[colTxnDesc] = t.Description
	row[colTxnPayee] = t.Payee
	row[colTxnCheque] = t.ChequeNo
	row[colTxnNotes] = t.Notes
	row[colTxnPosition] = strconv.Itoa(t.Position)
	row[colTxnRole] = role
	row[colTxnSpawnRef] = spawnRef
	return row
}

func unmarshalTransaction(record []string) (*model.Transaction, string, string, error) {
	if len(record) != txnNumFields {
		return nil, "", "", fmt.Errorf("expected %d fields, got %d", txnNumFields, len(record))
	}
	txnID, err := uuid.Parse(record[colTxnID])
	if err != nil {
		return nil, "", "", fmt.Errorf("parsing transaction ID %q: %w", record[colTxnID], err)
	}
	date, err := time.ParseInLocation(dateFormat, record[colTxnDate], time.UTC)
	if err != nil {
		return nil, "", "", fmt.Errorf("parsing date %q: %w", record[colTxnDate], err)
	}
	position, err := strconv.Atoi(record[colTxnPosition])
	if err != nil {
		return nil, "", "", fmt.Errorf("parsing position %q: %w", record[colTxnPosition], err)
	}
	t := &model.Transaction{
		ID:          txnID,
		Date:        date,
		Description: record[colTxnDesc],
		Payee:       record[colTxnPayee],
		ChequeNo:    record[colTxnCheque],
		Notes:       record[colTxnNotes],
		Position:    position,
	}
	return t, record[colTxnRole], record[colTxnSpawnRef], nil
}

// SplitsHeader is the CSV header for splits.csv. parent_id is the owning
// transaction's ID (ledger, template or override rows alike); account_id is
// empty for unassigned splits.
const SplitsHeader = "parent_id,account_id,amount,memo,reconcile_date"

const (
	splitNumFields    = 5
	colSplitParent    = 0
	colSplitAccount   = 1
	colSplitAmount    = 2
	colSplitMemo      = 3
	colSplitReconcile = 4
)

func marshalSplit(parent uuid.UUID, s *model.Split) []string {
	row := make([]string, splitNumFields)
	row[colSplitParent] = parent.String()
	if s.Account != nil {
		row[colSplitAccount] = s.Account.ID.String()
	}
	row[colSplitAmount] = s.Amount.String()
	row[colSplitMemo] = s.Memo
	if !s.ReconcileDate.IsZero() {
		row[colSplitReconcile] = s.ReconcileDate.Format(dateFormat)
	}
	return row
}

type splitRow struct {
	parent        uuid.UUID
	accountID     uuid.UUID // uuid.Nil = unassigned
	amount        decimal.Decimal
	memo          string
	reconcileDate time.Time
}

func unmarshalSplit(record []string) (splitRow, error) {
	if len(record) != splitNumFields {
		return splitRow{}, fmt.Errorf("expected %d fields, got %d", splitNumFields, len(record))
	}
	parent, err := uuid.Parse(record[colSplitParent])
	if err != nil {
		return splitRow{}, fmt.Errorf("parsing split parent %q: %w", record[colSplitParent], err)
	}
	row := splitRow{parent: parent}
	if record[colSplitAccount] != "" {
		row.accountID, err = uuid.Parse(record[colSplitAccount])
		if err != nil {
			return splitRow{}, fmt.Errorf("parsing split account %q: %w", record[colSplitAccount], err)
		}
	}
	row.amount, err = decimal.NewFromString(record[colSplitAmount])
	if err != nil {
		return splitRow{}, fmt.Errorf("parsing split amount %q: %w", record[colSplitAmount], err)
	}
	row.memo = record[colSplitMemo]
	if record[colSplitReconcile] != "" {
		row.reconcileDate, err = time.ParseInLocation(dateFormat, record[colSplitReconcile], time.UTC)
		if err != nil {
			return splitRow{}, fmt.Errorf("parsing reconcile date %q: %w", record[colSplitReconcile], err)
		}
	}
	return row, nil
}

// SchedulesHeader is the CSV header for schedules.csv. deleted_refs holds
// semicolon-separated spawn refs for deleted occurrences; override
// occurrences live in transactions.csv with role=override and a spawn_ref.
const SchedulesHeader = "id,ref_id,repeat,every,stop,deleted_refs"

const (
	schedNumFields  = 6
	colSchedID      = 0
	colSchedRefID   = 1
	colSchedRepeat  = 2
	colSchedEvery   = 3
	colSchedStop    = 4
	colSchedDeleted = 5
)

type scheduleRow struct {
	id          uuid.UUID
	refID       uuid.UUID
	repeat      model.RepeatType
	every       int
	stop        time.Time
	deletedRefs string
}

func marshalSchedule(s *model.Schedule, deletedRefs string) []string {
	row := make([]string, schedNumFields)
	row[colSchedID] = s.ID.String()
	row[colSchedRefID] = s.Ref.ID.String()
	row[colSchedRepeat] = string(s.Repeat)
	row[colSchedEvery] = strconv.Itoa(s.Every)
	if !s.Stop.IsZero() {
		row[colSchedStop] = s.Stop.Format(dateFormat)
	}
	row[colSchedDeleted] = deletedRefs
	return row
}

func unmarshalSchedule(record []string) (scheduleRow, error) {
	if len(record) != schedNumFields {
		return scheduleRow{}, fmt.Errorf("expected %d fields, got %d", schedNumFields, len(record))
	}
	var row scheduleRow
	var err error
	row.id, err = uuid.Parse(record[colSchedID])
	if err != nil {
		return scheduleRow{}, fmt.Errorf("parsing schedule ID %q: %w", record[colSchedID], err)
	}
	row.refID, err = uuid.Parse(record[colSchedRefID])
	if err != nil {
		return scheduleRow{}, fmt.Errorf("parsing schedule ref ID %q: %w", record[colSchedRefID], err)
	}
	row.repeat = model.RepeatType(record[colSchedRepeat])
	row.every, err = strconv.Atoi(record[colSchedEvery])
	if err != nil {
		return scheduleRow{}, fmt.Errorf("parsing schedule interval %q: %w", record[colSchedEvery], err)
	}
	if record[colSchedStop] != "" {
		row.stop, err = time.ParseInLocation(dateFormat, record[colSchedStop], time.UTC)
		if err != nil {
			return scheduleRow{}, fmt.Errorf("parsing schedule stop date %q: %w", record[colSchedStop], err)
		}
	}
	row.deletedRefs = record[colSchedDeleted]
	return row, nil
}
