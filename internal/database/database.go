package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Driver names a supported SQL dialect.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so read helpers work
// inside and outside a transaction script.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the database connection pool
type DB struct {
	*sql.DB
	driver       Driver
	queryTimeout time.Duration
	txRetries    int
	ids          IDAllocator
}

// Config holds database configuration. Fields are read from DB_* variables.
type Config struct {
	Driver          Driver        `env:"DRIVER" envDefault:"postgres"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"rpg_admin"`
	Password        string        `env:"PASSWORD" envDefault:"rpg_password"`
	DBName          string        `env:"NAME" envDefault:"rpg_database"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	Path            string        `env:"PATH" envDefault:"rpg.db"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"10m"`
	QueryTimeout    time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
	IDStrategy      string        `env:"ID_STRATEGY"`
	TxRetries       int           `env:"TX_RETRIES" envDefault:"3"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	Seed            bool          `env:"SEED" envDefault:"true"`
}

// DSN returns the driver-specific connection string.
func (c *Config) DSN() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
		), nil
	case DriverSQLite:
		if c.Path == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return "file:" + c.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_txlock=immediate", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// NewConnection opens a pool with the provided configuration and checks it
// with a ping. Locker may be nil.
func NewConnection(config *Config, locker Locker) (*DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}
	if config.Driver == DriverSQLite {
		if err := registerSQLiteFuncs(); err != nil {
			return nil, fmt.Errorf("failed to register sqlite functions: %w", err)
		}
	}

	db, err := sql.Open(string(config.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ids, err := NewIDAllocator(config.IDStrategy, config.Driver, locker)
	if err != nil {
		db.Close()
		return nil, err
	}

	if config.Driver == DriverSQLite {
		log.Printf("[Database] Connected to sqlite %s", config.Path)
	} else {
		log.Printf("[Database] Connected to %s:%s/%s", config.Host, config.Port, config.DBName)
	}
	log.Printf("[Database] Pool config: MaxOpen=%d, MaxIdle=%d, QueryTimeout=%s, IDs=%s",
		config.MaxOpenConns, config.MaxIdleConns, config.QueryTimeout, ids.Name())

	return &DB{
		DB:           db,
		driver:       config.Driver,
		queryTimeout: config.QueryTimeout,
		txRetries:    config.TxRetries,
		ids:          ids,
	}, nil
}

// IDs returns the allocator used for primary keys.
func (db *DB) IDs() IDAllocator {
	return db.ids
}

// Bound derives a context limited by the configured per-operation timeout.
func (db *DB) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// Health pings the database under the operation timeout.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := db.Bound(ctx)
	defer cancel()
	return db.PingContext(ctx)
}
