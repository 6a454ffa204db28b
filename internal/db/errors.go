package db

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// When column is non-empty ("items.sku"), the failing constraint must name it.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code()
	if code != sqlite3.SQLITE_CONSTRAINT_UNIQUE && code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}

	msg := sqliteErr.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(msg, column)
}
