package database

import (
	"context"
	"embed"
	"fmt"
	"log"
	"path"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

func (db *DB) execFile(ctx context.Context, name string) error {
	file := path.Join("migrations", string(db.driver), name)
	content, err := migrations.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("exec %s: %w", file, err)
	}
	return nil
}

// InitSchema creates database tables and indexes if they don't exist
func (db *DB) InitSchema(ctx context.Context) error {
	if err := db.execFile(ctx, "schema.sql"); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Println("[Database] Schema initialized")
	return nil
}

// Seed inserts the race, class and ability catalog. Rows that already exist
// are left alone.
func (db *DB) Seed(ctx context.Context) error {
	if err := db.execFile(ctx, "seed.sql"); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	log.Println("[Database] Catalog seeded")
	return nil
}
