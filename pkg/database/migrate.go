package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationFS embed.FS

// MigrateOptions controls Migrate.
type MigrateOptions struct {
	// Reset rolls every applied migration back before migrating up, leaving
	// empty tables behind.
	Reset bool
}

// NewMigrator returns a goose provider over the embedded migrations for the
// dialect that matches db's driver. Do not Close the provider: it closes db.
func NewMigrator(db *sqlx.DB) (*goose.Provider, error) {
	dialect, dir, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations fs: %w", err)
	}
	p, err := goose.NewProvider(dialect, db.DB, sub)
	if err != nil {
		return nil, fmt.Errorf("migrations provider: %w", err)
	}
	return p, nil
}

// Migrate applies all pending migrations and returns the resulting version.
func Migrate(ctx context.Context, db *sqlx.DB, opts MigrateOptions) (int64, error) {
	p, err := NewMigrator(db)
	if err != nil {
		return 0, err
	}
	if opts.Reset {
		if _, err := p.DownTo(ctx, 0); err != nil {
			return 0, fmt.Errorf("migrations reset: %w", err)
		}
	}
	if _, err := p.Up(ctx); err != nil {
		return 0, fmt.Errorf("migrations up: %w", err)
	}
	return p.GetDBVersion(ctx)
}

func dialectFor(driver string) (goose.Dialect, string, error) {
	switch driver {
	case "postgres", "pgx":
		return goose.DialectPostgres, "migrations/postgres", nil
	case "sqlite3":
		return goose.DialectSQLite3, "migrations/sqlite3", nil
	}
	return "", "", fmt.Errorf("migrations: unsupported driver %q", driver)
}
