package store

import (
	"errors"
	"strings"
)

var (
	// ErrStoreUnavailable indicates the underlying database could not be
	// opened or reached. Callers degrade to no-op mode instead of crashing.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrMigrationFailed indicates schema migration or legacy import stopped
	// partway. Committed work is kept; the operation is safe to retry.
	ErrMigrationFailed = errors.New("migration failed")
)

// isUniqueViolation reports whether err is a unique-constraint failure from
// the SQLite driver. Used to recover duplicate inserts instead of surfacing
// them.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint failed") || strings.Contains(s, "constraint failed")
}
