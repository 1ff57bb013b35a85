package model

import (
	"time"

	"github.com/google/uuid"
)

// RepeatType is the base interval of a recurring schedule.
type RepeatType string

const (
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// DateKey is the canonical string form of an occurrence date, used as the key
// in a schedule's exception map.
const DateKey = "2006-01-02"

// Schedule is a recurring transaction. Ref is the template every occurrence
// starts from; Exceptions carries per-date deviations: a nil value means the
// occurrence was deleted, a non-nil value replaces the spawn wholesale.
type Schedule struct {
	ID         uuid.UUID
	Ref        *Transaction
	Repeat     RepeatType
	Every      int       // repeat every N intervals, min 1
	Stop       time.Time // zero = repeats forever
	Exceptions map[string]*Transaction
}

// NewSchedule creates a schedule with a fresh ID from a template transaction.
func NewSchedule(ref *Transaction, repeat RepeatType, every int) *Schedule {
	if every < 1 {
		every = 1
	}
	return &Schedule{
		ID:         uuid.New(),
		Ref:        ref,
		Repeat:     repeat,
		Every:      every,
		Exceptions: make(map[string]*Transaction),
	}
}

// ContainsSpawn reports whether the transaction is an occurrence of this
// schedule.
func (s *Schedule) ContainsSpawn(t *Transaction) bool {
	return t.SpawnOf == s
}

// SpawnAt materializes the occurrence for date, honoring exceptions. Returns
// nil when the occurrence was deleted or date falls after the stop date.
func (s *Schedule) SpawnAt(date time.Time) *Transaction {
	if !s.Stop.IsZero() && date.After(s.Stop) {
		return nil
	}
	key := date.Format(DateKey)
	if override, ok := s.Exceptions[key]; ok {
		if override == nil {
			return nil
		}
		spawn := override.Snapshot()
		spawn.SpawnOf = s
		spawn.SpawnDate = date
		return spawn
	}
	spawn := s.Ref.Snapshot()
	spawn.Date = date
	spawn.SpawnOf = s
	spawn.SpawnDate = date
	return spawn
}

// SpawnsBetween materializes all occurrences in [start, end], inclusive.
func (s *Schedule) SpawnsBetween(start, end time.Time) []*Transaction {
	var spawns []*Transaction
	for date := s.Ref.Date; !date.After(end); date = s.NextDate(date) {
		if !s.Stop.IsZero() && date.After(s.Stop) {
			break
		}
		if date.Before(start) {
			continue
		}
		if spawn := s.SpawnAt(date); spawn != nil {
			spawns = append(spawns, spawn)
		}
	}
	return spawns
}

// NextDate returns the occurrence date following date.
func (s *Schedule) NextDate(date time.Time) time.Time {
	switch s.Repeat {
	case RepeatDaily:
		return date.AddDate(0, 0, s.Every)
	case RepeatWeekly:
		return date.AddDate(0, 0, 7*s.Every)
	case RepeatMonthly:
		return date.AddDate(0, s.Every, 0)
	case RepeatYearly:
		return date.AddDate(s.Every, 0, 0)
	default:
		return date.AddDate(0, 0, s.Every)
	}
}

// DeleteSpawnAt records the occurrence at date as deleted.
func (s *Schedule) DeleteSpawnAt(date time.Time) {
	s.Exceptions[date.Format(DateKey)] = nil
}

// OverrideSpawnAt replaces the occurrence at date with an edited transaction.
func (s *Schedule) OverrideSpawnAt(date time.Time, t *Transaction) {
	s.Exceptions[date.Format(DateKey)] = t
}

// Snapshot returns a deep copy of the schedule, including the template and
// every exception override.
func (s *Schedule) Snapshot() *Schedule {
	cp := *s
	if s.Ref != nil {
		cp.Ref = s.Ref.Snapshot()
	}
	cp.Exceptions = copyExceptions(s.Exceptions)
	return &cp
}

// RestoreFrom overwrites the schedule's state with the state held in src.
// The template and exceptions are deep-copied from src.
func (s *Schedule) RestoreFrom(src *Schedule) {
	*s = *src
	if src.Ref != nil {
		s.Ref = src.Ref.Snapshot()
	}
	s.Exceptions = copyExceptions(src.Exceptions)
}

func copyExceptions(exceptions map[string]*Transaction) map[string]*Transaction {
	out := make(map[string]*Transaction, len(exceptions))
	for key, t := range exceptions {
		if t == nil {
			out[key] = nil
			continue
		}
		out[key] = t.Snapshot()
	}
	return out
}
