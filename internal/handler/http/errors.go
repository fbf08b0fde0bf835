// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors for malformed requests detected by the handlers before
// any service is called. Callers can match against them with [errors.Is].
var (
	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrMissingFile is returned when an upload carries no "file" part.
	ErrMissingFile = errors.New(`multipart field "file" is required`)

	// ErrNoPaths is returned when a removal request lists no objects.
	ErrNoPaths = errors.New("at least one path is required")

	// ErrInvalidRecoveryLink is returned when a password update carries a
	// recovery URL without recovery tokens.
	ErrInvalidRecoveryLink = errors.New("invalid recovery link")
)
