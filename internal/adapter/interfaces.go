// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter defines the boundary between the portal runtime and the
// remote store: a table-oriented row store, an auth service and a blob store.
//
// The package ships a REST implementation for a hosted row-store/auth/storage
// service ([NewHTTPRemote]); a direct PostgreSQL implementation lives in the
// store package. Both map failures to the sentinel values in errors.go so
// that callers can use [errors.Is] regardless of the backend.
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/go-tech-support/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Eq is a conjunction of column = value filters.
type Eq map[string]any

// UpsertOptions controls conflict handling of [RowStore.Upsert].
type UpsertOptions struct {
	// OnConflict names the unique column rows are matched on. Empty means
	// the primary key.
	OnConflict string
	// IgnoreDuplicates keeps existing rows untouched instead of merging.
	IgnoreDuplicates bool
}

// RowStore is table-oriented CRUD with equality filters. Rows are exchanged
// as JSON-tagged Go values; dest arguments must be pointers to slices.
type RowStore interface {
	// Select reads every row of table matching filter into dest.
	Select(ctx context.Context, table string, filter Eq, dest any) error
	// Insert writes row (a struct or a slice) and, when dest is not nil,
	// reads the stored representation back into dest.
	Insert(ctx context.Context, table string, row any, dest any) error
	// Update applies patch to rows matching filter and reads the updated
	// rows into dest when it is not nil.
	Update(ctx context.Context, table string, filter Eq, patch any, dest any) error
	// Delete removes rows matching filter. Deleting nothing is not an error.
	Delete(ctx context.Context, table string, filter Eq) error
	// Upsert inserts rows resolving conflicts according to opts.
	Upsert(ctx context.Context, table string, rows any, opts UpsertOptions) error
}

// AuthProvider is the remote auth service. It owns the current session and
// persists it through a [SessionPersister] when one is configured.
type AuthProvider interface {
	// SignUp creates an identity. Some services also open a session, which
	// the caller is expected to close with SignOut.
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (models.AuthIdentity, error)
	// SignInWithPassword opens a session. Wrong credentials yield
	// [ErrInvalidCredentials].
	SignInWithPassword(ctx context.Context, email, password string) (models.Session, error)
	// SignOut closes the current session. Local session state is cleared
	// even when the remote call fails.
	SignOut(ctx context.Context) error
	// GetSession returns the current session or nil when there is none.
	GetSession(ctx context.Context) (*models.Session, error)
	// SetSession adopts a session obtained out of band (e.g. from a
	// password-recovery link).
	SetSession(ctx context.Context, session models.Session) error
	// ResetPasswordForEmail sends a recovery link pointing at redirectTo.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	// UpdatePassword changes the password of the current session's identity.
	UpdatePassword(ctx context.Context, newPassword string) error
	// AdminListUsers lists every identity. Requires admin privileges.
	AdminListUsers(ctx context.Context) ([]models.AuthIdentity, error)
	// AdminCreateUser creates a confirmed identity. Requires admin privileges.
	AdminCreateUser(ctx context.Context, email, password string) (models.AuthIdentity, error)
}

// BlobStorage stores binary objects in named buckets.
type BlobStorage interface {
	// CreateBucket creates a bucket; [ErrBucketExists] when it already exists.
	CreateBucket(ctx context.Context, name string, public bool) error
	// Upload stores body under path in bucket.
	Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string) error
	// PublicURL returns the URL an uploaded object is reachable at.
	PublicURL(bucket, path string) string
	// Remove deletes objects from bucket.
	Remove(ctx context.Context, bucket string, paths ...string) error
}

// SchemaManager prepares the remote tables the portal needs.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
}

// SessionPersister keeps the auth session across restarts.
type SessionPersister interface {
	// LoadSession returns [ErrNoSession] when nothing is stored.
	LoadSession(ctx context.Context) (models.Session, error)
	SaveSession(ctx context.Context, session models.Session) error
	ClearSession(ctx context.Context) error
}

// Remote bundles the sub-interfaces of one remote store backend.
type Remote struct {
	Rows   RowStore
	Auth   AuthProvider
	Blobs  BlobStorage
	Schema SchemaManager
	// Closer releases backend resources; nil when there is nothing to close.
	Closer io.Closer
}

// Close releases backend resources.
func (r Remote) Close() error {
	if r.Closer == nil {
		return nil
	}
	return r.Closer.Close()
}
