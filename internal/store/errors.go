// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors of the Local Mirror. Callers should use [errors.Is] to
// match against these values.
var (
	// ErrMirrorClosed is returned by an in-memory mirror after Close.
	ErrMirrorClosed = errors.New("local mirror is closed")

	// ErrCorruptMirrorEntry is returned when a stored value cannot be
	// decoded into the requested type.
	ErrCorruptMirrorEntry = errors.New("corrupt local mirror entry")
)

// Low-level database operation errors. These are returned (or wrapped) by
// the SQL-backed implementations when an operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a statement fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrEncodingRow is returned when a row value cannot be converted to
	// column values.
	ErrEncodingRow = errors.New("failed to encode row")
)
