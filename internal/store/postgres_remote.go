// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/crypto"
	"github.com/MKhiriev/go-tech-support/internal/logger"
)

type postgresSchema struct {
	db *DB
}

// EnsureSchema implements [adapter.SchemaManager] by applying the goose
// migrations of the direct backend.
func (s postgresSchema) EnsureSchema(ctx context.Context) error {
	if err := s.db.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %w", adapter.ErrSchemaMismatch, err)
	}
	return nil
}

// NewPostgresRemote connects to PostgreSQL and returns the direct backend:
// rows and auth in the database, blobs under cfg.FilesDir reachable at
// publicFilesURL.
func NewPostgresRemote(ctx context.Context, cfg config.Remote, publicFilesURL string, persister adapter.SessionPersister, log *logger.Logger) (adapter.Remote, error) {
	db, err := NewConnectPostgres(ctx, cfg.DSN, log)
	if err != nil {
		return adapter.Remote{}, fmt.Errorf("postgres connection error: %w", err)
	}

	blobs, err := NewFileBlobStorage(cfg.FilesDir, publicFilesURL)
	if err != nil {
		_ = db.Close()
		return adapter.Remote{}, err
	}

	return newPostgresRemote(db, cfg, blobs, persister), nil
}

func newPostgresRemote(db *DB, cfg config.Remote, blobs adapter.BlobStorage, persister adapter.SessionPersister) adapter.Remote {
	return adapter.Remote{
		Rows:   newPostgresRows(db),
		Auth:   newPostgresAuth(db, cfg, crypto.NewCredentialService(bcrypt.DefaultCost), persister),
		Blobs:  blobs,
		Schema: postgresSchema{db: db},
		Closer: db,
	}
}

func newPostgresAuth(db *DB, cfg config.Remote, credentials crypto.CredentialService, persister adapter.SessionPersister) *postgresAuth {
	return &postgresAuth{
		db:            db,
		builder:       sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		credentials:   credentials,
		signKey:       cfg.TokenSignKey,
		issuer:        cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		persister:     persister,
		now:           time.Now,
	}
}
