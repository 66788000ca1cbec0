package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ID allocation strategies accepted by DB_ID_STRATEGY.
const (
	StrategySequence = "sequence"
	StrategyMax      = "max"
)

// IDAllocator hands out the next primary key for a table. It always runs on
// the transaction of the insert it serves.
type IDAllocator interface {
	NextID(ctx context.Context, tx *Tx, table, column string) (int64, error)
	Name() string
}

// Locker serializes allocation for a table across API instances. Unlock is
// called once the transaction ends. Lock returns an error wrapping
// ErrLockTimeout when ctx ends before the lock is taken.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ErrLockTimeout reports that an id lock could not be taken in time.
var ErrLockTimeout = errors.New("id lock not acquired")

// NewIDAllocator picks a strategy by name. An empty name selects the default
// for the driver: sequences on Postgres, max+1 on sqlite.
func NewIDAllocator(strategy string, driver Driver, locker Locker) (IDAllocator, error) {
	if strategy == "" {
		strategy = StrategySequence
		if driver == DriverSQLite {
			strategy = StrategyMax
		}
	}
	switch strategy {
	case StrategySequence:
		if driver != DriverPostgres {
			return nil, fmt.Errorf("id strategy %q requires postgres", strategy)
		}
		return SequenceAllocator{}, nil
	case StrategyMax:
		return &MaxAllocator{Locker: locker}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdent(table, column string) error {
	if !identifier.MatchString(table) || !identifier.MatchString(column) {
		return fmt.Errorf("invalid identifier %s.%s", table, column)
	}
	return nil
}

// SequenceAllocator draws ids from the SERIAL sequence behind the column.
type SequenceAllocator struct{}

func (SequenceAllocator) Name() string { return StrategySequence }

func (SequenceAllocator) NextID(ctx context.Context, tx *Tx, table, column string) (int64, error) {
	if err := checkIdent(table, column); err != nil {
		return 0, err
	}
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT nextval(pg_get_serial_sequence($1, $2))`, table, column).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next %s.%s: %w", table, column, err)
	}
	return id, nil
}

// MaxAllocator computes max(column)+1 inside the transaction. Two writers can
// compute the same id; the loser hits a unique violation and the runner
// retries its script. Locker, when set, avoids most of those retries.
type MaxAllocator struct {
	Locker Locker
}

func (a *MaxAllocator) Name() string {
	if a.Locker != nil {
		return StrategyMax + "+lock"
	}
	return StrategyMax
}

func (a *MaxAllocator) NextID(ctx context.Context, tx *Tx, table, column string) (int64, error) {
	if err := checkIdent(table, column); err != nil {
		return 0, err
	}
	if a.Locker != nil && !tx.holdLock(table) {
		unlock, err := a.Locker.Lock(ctx, table)
		if err != nil {
			return 0, fmt.Errorf("lock %s: %w", table, err)
		}
		tx.OnDone(unlock)
	}

	var id int64
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s`, column, table)
	if err := tx.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("next %s.%s: %w", table, column, err)
	}
	return id, nil
}
