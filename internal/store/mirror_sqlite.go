// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-tech-support/internal/logger"
)

const mirrorTable = "mirror_entries"

// sqliteMirror is the SQLite-backed [LocalMirror]. Every key is one row of
// the mirror_entries table.
type sqliteMirror struct {
	db      *DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

// NewSQLiteMirror opens the mirror database at dsn and applies its schema.
func NewSQLiteMirror(ctx context.Context, dsn string, log *logger.Logger) (LocalMirror, error) {
	db, err := NewConnectSQLite(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.MigrateMirror(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mirror migration failed: %w", err)
	}

	return newSQLiteMirror(db), nil
}

func newSQLiteMirror(db *DB) *sqliteMirror {
	return &sqliteMirror{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now:     time.Now,
	}
}

// Get implements [LocalMirror].
func (m *sqliteMirror) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := m.builder.
		Select("value").
		From(mirrorTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = m.db.QueryRowContext(ctx, query, args...).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "sqliteMirror.Get").Str("key", key).Msg("error reading mirror entry")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

// Set implements [LocalMirror].
func (m *sqliteMirror) Set(ctx context.Context, key, value string) error {
	query, args, err := m.builder.
		Insert(mirrorTable).
		Columns("key", "value", "updated_at").
		Values(key, value, m.now().UnixMilli()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = m.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqliteMirror.Set").Str("key", key).Msg("error writing mirror entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Remove implements [LocalMirror].
func (m *sqliteMirror) Remove(ctx context.Context, key string) error {
	query, args, err := m.builder.
		Delete(mirrorTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = m.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sqliteMirror.Remove").Str("key", key).Msg("error removing mirror entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Close implements [LocalMirror].
func (m *sqliteMirror) Close() error {
	return m.db.Close()
}
