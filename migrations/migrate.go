// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds and applies the goose migrations of the portal:
// the PostgreSQL schema of the direct remote backend and the SQLite schema of
// the Local Mirror.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

// Migrate brings the PostgreSQL schema of the direct backend up to date.
func Migrate(db *sql.DB) error {
	return MigrateContext(context.Background(), db)
}

// MigrateContext is [Migrate] with a caller supplied context.
func MigrateContext(ctx context.Context, db *sql.DB) error {
	return up(ctx, db, goose.DialectPostgres, "postgres")
}

// MigrateMirror creates the key/value table of the SQLite Local Mirror.
func MigrateMirror(ctx context.Context, db *sql.DB) error {
	return up(ctx, db, goose.DialectSQLite3, "sqlite")
}

func up(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	fsys, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("migration error opening %s migrations: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migration error creating provider: %w", err)
	}

	if _, err = provider.Up(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
