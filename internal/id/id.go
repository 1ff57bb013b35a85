// Package id formats and parses the stable references used when ledger state
// is written to disk.
package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const spawnDateFormat = "2006-01-02"

// FormatSpawnRef returns a spawn reference like
// "9f1c...-...-...@2025-03-01": the owning schedule's ID plus the occurrence
// date.
func FormatSpawnRef(scheduleID uuid.UUID, date time.Time) string {
	return scheduleID.String() + "@" + date.Format(spawnDateFormat)
}

// ParseSpawnRef parses a spawn reference back into schedule ID and occurrence
// date.
func ParseSpawnRef(ref string) (uuid.UUID, time.Time, error) {
	idPart, datePart, ok := strings.Cut(ref, "@")
	if !ok {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid spawn ref format: %q", ref)
	}

	scheduleID, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid schedule ID in spawn ref %q: %w", ref, err)
	}

	date, err := time.ParseInLocation(spawnDateFormat, datePart, time.UTC)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("invalid date in spawn ref %q: %w", ref, err)
	}

	return scheduleID, date, nil
}
