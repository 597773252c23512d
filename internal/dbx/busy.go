package dbx

import (
	"errors"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/carcare/internal/common"
)

// IsBusy reports whether err is a transient SQLite locking conflict
// (SQLITE_BUSY or SQLITE_LOCKED) or carries common.ErrorStoreBusy. The
// embedded store locks the whole file, so a concurrent writer surfaces as
// one of these codes; the write queue treats them as retryable.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrorStoreBusy) {
		return true
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}
	// Fallback for wrappers that only preserve the driver message.
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
