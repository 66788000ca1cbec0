// Package store holds the SQL for every resource. Reads run as single
// statements on the pool; writes spanning more than one table run as
// transaction scripts through database.DB.InTx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesa-rpg/api/internal/apperr"
	"github.com/mesa-rpg/api/internal/database"
)

// Store is the repository over the campaign database.
type Store struct {
	db *database.DB
}

// New creates a Store on an open pool.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// fail converts err into an API error with message as its summary.
func fail(ctx context.Context, message string, err error) error {
	if err == nil {
		return nil
	}
	if !apperr.IsClientError(err) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Wrap(apperr.CodeTimeout, "Tempo limite excedido: "+message, err)
	}
	return database.Classify(message, err)
}

// exists runs a SELECT 1 query and reports whether it matched a row.
func exists(ctx context.Context, q database.Querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// require returns a NotFound error with message when the query matches no row.
func require(ctx context.Context, q database.Querier, message, query string, args ...any) error {
	ok, err := exists(ctx, q, query, args...)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(message)
	}
	return nil
}

// where accumulates optional filter clauses with numbered placeholders.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

// containsPattern builds a LIKE pattern matching s anywhere in the column,
// with its own wildcards escaped. Pair it with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}
