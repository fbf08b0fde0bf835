// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// classifyPostgresError maps a database/sql or pgx error to the adapter
// sentinel describing it, so that callers of the direct backend see the same
// errors as callers of the REST backend. The returned error wraps both the
// sentinel and err.
//
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
func classifyPostgresError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w: %w", op, sentinelForPgCode(pgErr.Code), err)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr),
		pgconn.SafeToRetry(err):
		return fmt.Errorf("%s: %w: %w", op, adapter.ErrUnavailable, err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%s: %w: %w", op, adapter.ErrUnavailable, err)
	}

	return fmt.Errorf("%s: %w: %w", op, adapter.ErrInternalServerError, err)
}

// sentinelForPgCode maps a PostgreSQL error code to an adapter sentinel.
//
//   - Class 08, 57P01-57P03, 53: server unreachable or out of resources → unavailable
//   - 23505 unique violation → conflict
//   - Class 22, other class 23: bad data → bad request
//   - 42P01, 42703, 42883: missing table, column or function → schema mismatch
//   - 42501 and class 28: privileges → forbidden
//
// Any code not listed above maps to an internal error.
func sentinelForPgCode(code string) error {
	switch code {
	case pgerrcode.UniqueViolation:
		return adapter.ErrConflict

	case pgerrcode.UndefinedTable,
		pgerrcode.UndefinedColumn,
		pgerrcode.UndefinedFunction:
		return adapter.ErrSchemaMismatch

	case pgerrcode.InsufficientPrivilege:
		return adapter.ErrForbidden

	case pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown,
		pgerrcode.CannotConnectNow:
		return adapter.ErrUnavailable
	}

	switch {
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsInsufficientResources(code):
		return adapter.ErrUnavailable
	case pgerrcode.IsDataException(code),
		pgerrcode.IsIntegrityConstraintViolation(code):
		return adapter.ErrBadRequest
	case pgerrcode.IsInvalidAuthorizationSpecification(code):
		return adapter.ErrForbidden
	}

	return adapter.ErrInternalServerError
}
