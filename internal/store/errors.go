package store

import (
	"errors"

	sqlite3 "modernc.org/sqlite"
)

// ErrVersionConflict is returned when a version insert hits an existing
// (paper_slug, version_number) row. It signals that a concurrent ingestion
// allocated the same number; the caller retries the whole transaction.
var ErrVersionConflict = errors.New("version number conflict")

// ErrUnknownPaper is returned when a link references a paper slug (or
// version) that does not exist in the ledger.
var ErrUnknownPaper = errors.New("unknown paper")

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// isUniqueViolation reports whether err is a unique or primary key
// constraint violation.
func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey
	}
	return false
}

// isForeignKeyViolation reports whether err is a foreign key constraint
// violation.
func isForeignKeyViolation(err error) bool {
	var se *sqlite3.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteConstraintForeignKey
	}
	return false
}
