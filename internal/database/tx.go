package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mesa-rpg/api/internal/apperr"
)

// Tx is one attempt of a transaction script. It holds a single pooled
// connection until commit or rollback.
type Tx struct {
	*sql.Tx
	onDone []func()
	locks  map[string]bool
}

// OnDone registers fn to run after the transaction ends, whether it
// committed, rolled back or panicked.
func (tx *Tx) OnDone(fn func()) {
	tx.onDone = append(tx.onDone, fn)
}

// holdLock records key as locked for the rest of the transaction and
// reports whether it was already held.
func (tx *Tx) holdLock(key string) bool {
	if tx.locks[key] {
		return true
	}
	if tx.locks == nil {
		tx.locks = make(map[string]bool)
	}
	tx.locks[key] = true
	return false
}

func (tx *Tx) finish() {
	for i := len(tx.onDone) - 1; i >= 0; i-- {
		tx.onDone[i]()
	}
	tx.onDone = nil
}

// TxFunc is a transaction script body.
type TxFunc func(ctx context.Context, tx *Tx) error

// InTx runs fn inside one transaction. Either every statement of fn commits
// or none does. NotFound and Validation errors raised by fn are returned
// as-is after rollback; key conflicts and lock contention rerun the whole
// script; anything else is reported as a TRANSACTION error naming the script.
func (db *DB) InTx(ctx context.Context, name string, fn TxFunc) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = db.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if apperr.IsClientError(err) {
			return err
		}
		if !retryable(err) || attempt >= db.txRetries || ctx.Err() != nil {
			break
		}
		log.Printf("[Database] Transaction %q conflicted (attempt %d/%d): %v", name, attempt+1, db.txRetries+1, err)
		if !sleepCtx(ctx, time.Duration(attempt+1)*10*time.Millisecond) {
			break
		}
	}

	if errors.Is(err, ErrLockTimeout) {
		log.Printf("[Database] Transaction %q gave up waiting for an id lock: %v", name, err)
		return apperr.Wrap(apperr.CodeTimeout, "Tempo limite excedido aguardando alocação de id na transação "+name, err)
	}
	log.Printf("[Database] Transaction %q rolled back: %v", name, err)
	if IsTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Wrap(apperr.CodeTimeout, "Tempo limite excedido na transação "+name, err)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Code == apperr.CodeTransaction {
		return err
	}
	return apperr.Wrap(apperr.CodeTransaction, "Falha na transação "+name, err)
}

func (db *DB) runTx(ctx context.Context, fn TxFunc) (err error) {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	tx := &Tx{Tx: sqlTx}
	defer tx.finish()
	defer func() {
		// No-op after a successful commit.
		_ = sqlTx.Rollback()
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
