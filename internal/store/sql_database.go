// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/migrations"
)

// DB is a database handle shared by the SQL-backed implementations.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies the PostgreSQL schema of the direct remote backend.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.MigrateContext(ctx, db.DB)
}

// MigrateMirror applies the SQLite schema of the Local Mirror.
func (db *DB) MigrateMirror(ctx context.Context) error {
	return migrations.MigrateMirror(ctx, db.DB)
}
