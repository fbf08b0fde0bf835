// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
)

// postgresRows is the direct PostgreSQL [adapter.RowStore]. Rows travel as
// JSON: values are written column by column from their JSON encoding and
// read back with row_to_json, so the JSON tags of the Go types are the
// column names.
type postgresRows struct {
	db      *DB
	builder sq.StatementBuilderType
}

func newPostgresRows(db *DB) *postgresRows {
	return &postgresRows{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Select implements [adapter.RowStore].
func (p *postgresRows) Select(ctx context.Context, table string, filter adapter.Eq, dest any) error {
	if err := checkIdentifiers(table, filter); err != nil {
		return err
	}

	q := p.builder.Select("row_to_json(t)").From(table + " AS t")
	if len(filter) > 0 {
		q = q.Where(sq.Eq(filter))
	}

	return p.queryInto(ctx, "select "+table, q, dest)
}

// Insert implements [adapter.RowStore].
func (p *postgresRows) Insert(ctx context.Context, table string, row any, dest any) error {
	if !adapter.ValidIdentifier(table) {
		return fmt.Errorf("insert %q: %w", table, adapter.ErrInvalidIdentifier)
	}

	rows, err := rowColumns(row)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	if len(rows) == 0 {
		return decodeRows(nil, dest)
	}

	q, _ := insertRows(p.builder, table, rows)
	if dest == nil {
		return p.exec(ctx, "insert "+table, q)
	}
	return p.queryInto(ctx, "insert "+table, q.Suffix(returningRow(table)), dest)
}

// Update implements [adapter.RowStore]. An empty patch updates nothing and
// reads the matching rows back.
func (p *postgresRows) Update(ctx context.Context, table string, filter adapter.Eq, patch any, dest any) error {
	if err := checkIdentifiers(table, filter); err != nil {
		return err
	}
	if len(filter) == 0 {
		return fmt.Errorf("update %s without filter: %w", table, adapter.ErrBadRequest)
	}

	rows, err := rowColumns(patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if len(rows) != 1 {
		return fmt.Errorf("update %s: patch must be a single object: %w", table, adapter.ErrBadRequest)
	}
	if len(rows[0]) == 0 {
		if dest == nil {
			return nil
		}
		return p.Select(ctx, table, filter, dest)
	}

	q := p.builder.Update(table).SetMap(rows[0]).Where(sq.Eq(filter))
	if dest == nil {
		return p.exec(ctx, "update "+table, q)
	}
	return p.queryInto(ctx, "update "+table, q.Suffix(returningRow(table)), dest)
}

// Delete implements [adapter.RowStore]. A filter is required.
func (p *postgresRows) Delete(ctx context.Context, table string, filter adapter.Eq) error {
	if err := checkIdentifiers(table, filter); err != nil {
		return err
	}
	if len(filter) == 0 {
		return fmt.Errorf("delete from %s without filter: %w", table, adapter.ErrBadRequest)
	}

	return p.exec(ctx, "delete "+table, p.builder.Delete(table).Where(sq.Eq(filter)))
}

// Upsert implements [adapter.RowStore].
func (p *postgresRows) Upsert(ctx context.Context, table string, rows any, opts adapter.UpsertOptions) error {
	if !adapter.ValidIdentifier(table) {
		return fmt.Errorf("upsert %q: %w", table, adapter.ErrInvalidIdentifier)
	}
	target := opts.OnConflict
	if target == "" {
		target = "id"
	}
	if !adapter.ValidIdentifier(target) {
		return fmt.Errorf("upsert %s on %q: %w", table, target, adapter.ErrInvalidIdentifier)
	}

	columns, err := rowColumns(rows)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil
	}

	q, cols := insertRows(p.builder, table, columns)
	return p.exec(ctx, "upsert "+table, q.Suffix(conflictClause(target, cols, opts.IgnoreDuplicates)))
}

func (p *postgresRows) exec(ctx context.Context, op string, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrBuildingSQLQuery, err)
	}

	if _, err = p.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresRows.exec").Str("op", op).Msg("error executing statement")
		return classifyPostgresError(op, err)
	}
	return nil
}

// queryInto runs a statement producing one JSON value per row and decodes
// the rows as a JSON array into dest.
func (p *postgresRows) queryInto(ctx context.Context, op string, q sq.Sqlizer, dest any) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrBuildingSQLQuery, err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresRows.queryInto").Str("op", op).Msg("error executing query")
		return classifyPostgresError(op, err)
	}
	defer rows.Close()

	var values [][]byte
	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return fmt.Errorf("%s: %w: %w", op, ErrScanningRow, err)
		}
		values = append(values, raw)
	}
	if err = rows.Err(); err != nil {
		return classifyPostgresError(op, err)
	}

	if err = decodeRows(values, dest); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func decodeRows(values [][]byte, dest any) error {
	if dest == nil {
		return nil
	}
	buf := bytes.NewBuffer([]byte{'['})
	buf.Write(bytes.Join(values, []byte{','}))
	buf.WriteByte(']')
	if err := json.Unmarshal(buf.Bytes(), dest); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return nil
}

// rowColumns converts a JSON-encodable struct, map or slice of either into
// column maps. Objects and arrays become JSON text for jsonb columns; JSON
// null becomes SQL NULL.
func rowColumns(row any) ([]map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingRow, err)
	}
	raw = bytes.TrimSpace(raw)

	var objects []map[string]json.RawMessage
	switch {
	case bytes.HasPrefix(raw, []byte("[")):
		err = json.Unmarshal(raw, &objects)
	case bytes.HasPrefix(raw, []byte("{")):
		var one map[string]json.RawMessage
		err = json.Unmarshal(raw, &one)
		objects = append(objects, one)
	default:
		err = fmt.Errorf("row must be an object or an array, got %.20s", raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingRow, err)
	}

	out := make([]map[string]any, 0, len(objects))
	for _, obj := range objects {
		cols := make(map[string]any, len(obj))
		for name, value := range obj {
			if !adapter.ValidIdentifier(name) {
				return nil, fmt.Errorf("column %q: %w", name, adapter.ErrInvalidIdentifier)
			}
			v, err := columnValue(value)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w: %w", name, ErrEncodingRow, err)
			}
			cols[name] = v
		}
		out = append(out, cols)
	}
	return out, nil
}

func columnValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case '{', '[':
		return string(raw), nil
	case 'n':
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if n, ok := v.(json.Number); ok {
		return n.String(), nil
	}
	return v, nil
}

// insertRows builds a multi-row INSERT over the union of the rows' columns.
// Columns missing from a row take their DEFAULT.
func insertRows(b sq.StatementBuilderType, table string, rows []map[string]any) (sq.InsertBuilder, []string) {
	set := make(map[string]struct{})
	for _, r := range rows {
		for c := range r {
			set[c] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	q := b.Insert(table).Columns(cols...)
	for _, r := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			if v, ok := r[c]; ok {
				values[i] = v
			} else {
				values[i] = sq.Expr("DEFAULT")
			}
		}
		q = q.Values(values...)
	}
	return q, cols
}

func returningRow(table string) string {
	return "RETURNING row_to_json(" + table + ".*)"
}

func conflictClause(target string, cols []string, ignoreDuplicates bool) string {
	if !ignoreDuplicates {
		var sets []string
		for _, c := range cols {
			if c == target {
				continue
			}
			sets = append(sets, c+" = EXCLUDED."+c)
		}
		if len(sets) > 0 {
			return "ON CONFLICT (" + target + ") DO UPDATE SET " + strings.Join(sets, ", ")
		}
	}
	return "ON CONFLICT (" + target + ") DO NOTHING"
}

func checkIdentifiers(table string, filter adapter.Eq) error {
	if !adapter.ValidIdentifier(table) {
		return fmt.Errorf("table %q: %w", table, adapter.ErrInvalidIdentifier)
	}
	for column := range filter {
		if !adapter.ValidIdentifier(column) {
			return fmt.Errorf("column %q: %w", column, adapter.ErrInvalidIdentifier)
		}
	}
	return nil
}
