package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mesa-rpg/api/internal/apperr"
)

func openTestDB(t *testing.T, locker Locker) *DB {
	t.Helper()
	cfg := &Config{
		Driver:       DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		QueryTimeout: 5 * time.Second,
		TxRetries:    3,
	}
	db, err := NewConnection(cfg, locker)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := db.InitSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := db.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestConfigDSN(t *testing.T) {
	pg := &Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", DBName: "rpg", SSLMode: "disable"}
	dsn, err := pg.DSN()
	if err != nil || dsn != "host=db port=5432 user=u password=p dbname=rpg sslmode=disable" {
		t.Fatalf("postgres dsn = %q, %v", dsn, err)
	}

	if _, err := (&Config{Driver: DriverSQLite}).DSN(); err == nil {
		t.Fatal("expected missing sqlite path to fail")
	}
	if _, err := (&Config{Driver: "mysql"}).DSN(); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}

func TestNewIDAllocatorDefaults(t *testing.T) {
	a, err := NewIDAllocator("", DriverPostgres, nil)
	if err != nil || a.Name() != StrategySequence {
		t.Fatalf("postgres default = %v, %v", a, err)
	}
	a, err = NewIDAllocator("", DriverSQLite, nil)
	if err != nil || a.Name() != StrategyMax {
		t.Fatalf("sqlite default = %v, %v", a, err)
	}
	if _, err := NewIDAllocator(StrategySequence, DriverSQLite, nil); err == nil {
		t.Fatal("expected sequence on sqlite to fail")
	}
	if _, err := NewIDAllocator("uuid", DriverPostgres, nil); err == nil {
		t.Fatal("expected unknown strategy to fail")
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	if err := db.InitSchema(ctx); err != nil {
		t.Fatalf("second schema run: %v", err)
	}
	before := countRows(t, db, "raca")
	if err := db.Seed(ctx); err != nil {
		t.Fatalf("second seed run: %v", err)
	}
	if after := countRows(t, db, "raca"); after != before || after == 0 {
		t.Fatalf("races = %d after reseed, want %d", after, before)
	}
}

func TestInTxCommits(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()

	var id int64
	err := db.InTx(ctx, "create user", func(ctx context.Context, tx *Tx) error {
		var err error
		id, err = db.IDs().NextID(ctx, tx, "usuario", "user_id")
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES ($1, $2, $3)`, id, "ana", "ana@mesa.rpg")
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}
	if n := countRows(t, db, "usuario"); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.InTx(ctx, "partial", func(ctx context.Context, tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES (1, 'ana', 'a@b')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
	if apperr.CodeOf(err) != apperr.CodeTransaction {
		t.Fatalf("code = %s, want %s", apperr.CodeOf(err), apperr.CodeTransaction)
	}
	if n := countRows(t, db, "usuario"); n != 0 {
		t.Fatalf("users = %d after rollback, want 0", n)
	}
}

func TestInTxPassesClientErrorsThrough(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()

	err := db.InTx(ctx, "lookup", func(ctx context.Context, tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES (1, 'ana', 'a@b')`); err != nil {
			return err
		}
		return apperr.NotFound("Sessão não encontrada")
	})
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if n := countRows(t, db, "usuario"); n != 0 {
		t.Fatalf("users = %d, want rollback", n)
	}
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	released := false

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = db.InTx(ctx, "panics", func(ctx context.Context, tx *Tx) error {
			tx.OnDone(func() { released = true })
			if _, err := tx.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES (1, 'ana', 'a@b')`); err != nil {
				return err
			}
			panic("script bug")
		})
	}()

	if !released {
		t.Fatal("OnDone hook did not run")
	}
	if n := countRows(t, db, "usuario"); n != 0 {
		t.Fatalf("users = %d, want rollback", n)
	}
}

func TestInTxRetriesUniqueViolation(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES (1, 'ana', 'a@b')`); err != nil {
		t.Fatalf("setup: %v", err)
	}

	attempts := 0
	err := db.InTx(ctx, "stale id", func(ctx context.Context, tx *Tx) error {
		attempts++
		id := int64(1)
		if attempts > 1 {
			var err error
			if id, err = db.IDs().NextID(ctx, tx, "usuario", "user_id"); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES ($1, 'bia', 'b@c')`, id)
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if n := countRows(t, db, "usuario"); n != 2 {
		t.Fatalf("users = %d, want 2", n)
	}
}

func TestInTxGivesUpAfterRetries(t *testing.T) {
	db := openTestDB(t, nil)
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES (1, 'ana', 'a@b')`); err != nil {
		t.Fatalf("setup: %v", err)
	}

	attempts := 0
	err := db.InTx(ctx, "always conflicts", func(ctx context.Context, tx *Tx) error {
		attempts++
		_, err := tx.ExecContext(ctx, `INSERT INTO usuario (user_id, nome_usuario, email) VALUES (1, 'bia', 'b@c')`)
		return err
	})
	if apperr.CodeOf(err) != apperr.CodeTransaction {
		t.Fatalf("expected transaction error, got %v", err)
	}
	if attempts != db.txRetries+1 {
		t.Fatalf("attempts = %d, want %d", attempts, db.txRetries+1)
	}
}

func TestInTxTimeout(t *testing.T) {
	db := openTestDB(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(5 * time.Millisecond)

	err := db.InTx(ctx, "late", func(ctx context.Context, tx *Tx) error { return nil })
	if apperr.CodeOf(err) != apperr.CodeTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

type fakeLocker struct {
	mu     sync.Mutex
	locked map[string]int
	freed  map[string]int
}

func (l *fakeLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked[key]++
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.freed[key]++
	}, nil
}

func TestMaxAllocatorLocksOncePerTable(t *testing.T) {
	locker := &fakeLocker{locked: map[string]int{}, freed: map[string]int{}}
	db := openTestDB(t, locker)
	ctx := context.Background()

	err := db.InTx(ctx, "two ids", func(ctx context.Context, tx *Tx) error {
		for i := 0; i < 2; i++ {
			if _, err := db.IDs().NextID(ctx, tx, "usuario", "user_id"); err != nil {
				return err
			}
		}
		_, err := db.IDs().NextID(ctx, tx, "sessao", "sessao_id")
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if locker.locked["usuario"] != 1 || locker.freed["usuario"] != 1 {
		t.Fatalf("usuario lock = %d/%d, want 1/1", locker.locked["usuario"], locker.freed["usuario"])
	}
	if locker.locked["sessao"] != 1 || locker.freed["sessao"] != 1 {
		t.Fatalf("sessao lock = %d/%d, want 1/1", locker.locked["sessao"], locker.freed["sessao"])
	}
}

type busyLocker struct{}

func (busyLocker) Lock(ctx context.Context, key string) (func(), error) {
	<-ctx.Done()
	return nil, fmt.Errorf("%w %s: %w", ErrLockTimeout, key, ctx.Err())
}

func TestInTxReportsLockTimeout(t *testing.T) {
	db := openTestDB(t, busyLocker{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := db.InTx(ctx, "create player", func(ctx context.Context, tx *Tx) error {
		_, err := db.IDs().NextID(ctx, tx, "usuario", "user_id")
		return err
	})
	if got := apperr.CodeOf(err); got != apperr.CodeTimeout {
		t.Fatalf("code = %s, want %s (err: %v)", got, apperr.CodeTimeout, err)
	}
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("err = %v, want it to wrap ErrLockTimeout", err)
	}
}

func TestMaxAllocatorRejectsBadIdentifiers(t *testing.T) {
	db := openTestDB(t, nil)
	err := db.InTx(context.Background(), "bad", func(ctx context.Context, tx *Tx) error {
		_, err := db.IDs().NextID(ctx, tx, "usuario; DROP TABLE usuario", "user_id")
		return err
	})
	if err == nil {
		t.Fatal("expected invalid identifier to fail")
	}
}

func TestClassify(t *testing.T) {
	if Classify("x", nil) != nil {
		t.Fatal("nil error should classify to nil")
	}
	nf := apperr.NotFound("Personagem não encontrado")
	if got := Classify("x", nf); got != error(nf) {
		t.Fatalf("api errors should pass through, got %v", got)
	}
	if code := apperr.CodeOf(Classify("listar", context.DeadlineExceeded)); code != apperr.CodeTimeout {
		t.Fatalf("deadline code = %s", code)
	}
	if code := apperr.CodeOf(Classify("listar", errors.New("connection refused"))); code != apperr.CodeDatabase {
		t.Fatalf("driver error code = %s", code)
	}
}

func TestIsUniqueViolationMessage(t *testing.T) {
	if !IsUniqueViolation(errors.New(`pq: duplicate key value violates unique constraint "usuario_pkey"`)) {
		t.Fatal("expected postgres message to match")
	}
	if IsUniqueViolation(errors.New("FOREIGN KEY constraint failed")) {
		t.Fatal("foreign key failure is not a conflict")
	}
}
