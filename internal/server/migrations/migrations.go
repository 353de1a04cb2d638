// Package migrations embeds the goose SQL migrations, one directory per
// database dialect, and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Dialect directories.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// FS returns the migrations of one dialect rooted at ".".
func FS(dialect string) (fs.FS, error) {
	switch dialect {
	case Postgres, SQLite:
		return fs.Sub(files, dialect)
	default:
		return nil, fmt.Errorf("unknown migrations dialect %q", dialect)
	}
}

func gooseDialect(dialect string) goose.Dialect {
	if dialect == SQLite {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

// Up applies every pending migration of the dialect.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	fsys, err := FS(dialect)
	if err != nil {
		return err
	}

	p, err := goose.NewProvider(gooseDialect(dialect), db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}
