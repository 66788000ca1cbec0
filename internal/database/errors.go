package database

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesa-rpg/api/internal/apperr"
)

const (
	pqUniqueViolation = "23505"
	pqQueryCanceled   = "57014"
)

// IsUniqueViolation reports a duplicate primary or unique key.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsBusy reports sqlite lock contention.
func IsBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

// IsTimeout reports a context deadline or a statement canceled by the server.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqQueryCanceled
}

// Classify turns a driver error into an API error. Errors that already carry
// an API code are returned unchanged.
func Classify(message string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if IsTimeout(err) {
		return apperr.Wrap(apperr.CodeTimeout, "Tempo limite excedido: "+message, err)
	}
	return apperr.Wrap(apperr.CodeDatabase, message, err)
}

func retryable(err error) bool {
	return IsUniqueViolation(err) || IsBusy(err)
}
