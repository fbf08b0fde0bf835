// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds the storage of the portal runtime: the Local Mirror
// (SQLite, in-memory and LRU-cached implementations plus collection and
// session helpers) and the direct PostgreSQL remote backend with its
// file-system blob storage.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Storages groups the Local Mirror and the remote store backend selected by
// the configuration.
type Storages struct {
	Mirror LocalMirror
	Remote adapter.Remote
}

// NewStorages opens the Local Mirror at cfg.Mirror.DSN (wrapped in a read
// cache) and connects the remote backend chosen by cfg.Remote.Mode. The auth
// session of either backend is persisted in the mirror. Cache metrics are
// registered with reg.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, reg prometheus.Registerer, log *logger.Logger) (*Storages, error) {
	log.Info().Str("mode", cfg.Remote.Mode).Msg("creating new storages...")

	mirror, err := NewSQLiteMirror(ctx, cfg.Mirror.DSN, log)
	if err != nil {
		return nil, err
	}
	mirror = NewCachedMirror(mirror, cfg.Mirror.CacheSize, cfg.Mirror.CacheTTL, reg)
	persister := NewMirrorSessionPersister(mirror)

	var remote adapter.Remote
	switch cfg.Remote.Mode {
	case config.RemoteModePostgres:
		remote, err = NewPostgresRemote(ctx, cfg.Remote, cfg.PublicFilesURL(), persister, log)
	case config.RemoteModeHTTP:
		remote, err = adapter.NewHTTPRemote(cfg.Remote, persister, log)
	default:
		err = fmt.Errorf("unknown remote mode %q", cfg.Remote.Mode)
	}
	if err != nil {
		_ = mirror.Close()
		return nil, err
	}

	return &Storages{Mirror: mirror, Remote: remote}, nil
}

// Close releases the remote backend and the mirror.
func (s *Storages) Close() error {
	return errors.Join(s.Remote.Close(), s.Mirror.Close())
}
