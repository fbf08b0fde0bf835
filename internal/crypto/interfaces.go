// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the credential primitives of the direct PostgreSQL
// backend: password hashing and opaque token generation.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/credentials_mock.go -package=mock

// CredentialService hashes account passwords and issues opaque tokens.
// It knows nothing about the database or the network.
type CredentialService interface {
	// HashPassword returns a bcrypt hash of password.
	// Passwords longer than 72 bytes yield [ErrPasswordTooLong].
	HashPassword(password string) (string, error)

	// ComparePassword returns nil when password matches hash and
	// [ErrPasswordMismatch] when it does not.
	ComparePassword(hash, password string) error

	// NewToken returns a random URL-safe token suitable for refresh tokens.
	NewToken() (string, error)
}
