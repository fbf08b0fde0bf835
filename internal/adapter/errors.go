package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrUnavailable marks transport failures: the remote store could not
	// be reached or did not answer.
	ErrUnavailable = errors.New("remote store unavailable")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
	ErrBucketExists       = errors.New("bucket already exists")
	ErrSchemaMismatch     = errors.New("remote schema mismatch")
	ErrInvalidIdentifier  = errors.New("invalid table or column name")
)
