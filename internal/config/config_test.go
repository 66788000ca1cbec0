package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesa-rpg/api/internal/database"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "3000" || cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("server = %q/%s", cfg.Port, cfg.RequestTimeout)
	}
	db := cfg.Database
	if db.Driver != database.DriverPostgres || db.User != "rpg_admin" || db.DBName != "rpg_database" {
		t.Fatalf("database = %+v", db)
	}
	if db.MaxOpenConns != 25 || db.MaxIdleConns != 5 || db.QueryTimeout != 5*time.Second || db.TxRetries != 3 {
		t.Fatalf("pool = %+v", db)
	}
	if !db.AutoMigrate || !db.Seed || db.IDStrategy != "" {
		t.Fatalf("startup flags = %+v", db)
	}
	if cfg.Redis.Enabled() || cfg.Redis.LockTTL != 5*time.Second {
		t.Fatalf("redis = %+v", cfg.Redis)
	}
}

func TestParsePrefixedOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/mesa.db")
	t.Setenv("DB_ID_STRATEGY", "max")
	t.Setenv("DB_QUERY_TIMEOUT", "2s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.Database.Driver != database.DriverSQLite || cfg.Database.Path != "/tmp/mesa.db" {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.Database.IDStrategy != "max" || cfg.Database.QueryTimeout != 2*time.Second {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if !cfg.Redis.Enabled() {
		t.Fatal("expected redis enabled")
	}
}

func TestParseRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Parse(); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("DB_QUERY_TIMEOUT", "soon")
	if _, err := Parse(); err == nil {
		t.Fatal("expected invalid duration to fail")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME=campanha\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("DB_NAME", "")
	os.Unsetenv("DB_NAME")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.DBName != "campanha" {
		t.Fatalf("db name = %q, want value from .env", cfg.Database.DBName)
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
}
