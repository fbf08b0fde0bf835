// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/models"
)

// SessionMirrorKey is the mirror key the auth session is persisted under.
const SessionMirrorKey = "auth.session"

type mirrorSessionPersister struct {
	mirror LocalMirror
}

// NewMirrorSessionPersister keeps the auth session in the Local Mirror so it
// survives restarts of the portal runtime.
func NewMirrorSessionPersister(mirror LocalMirror) adapter.SessionPersister {
	return &mirrorSessionPersister{mirror: mirror}
}

func (p *mirrorSessionPersister) LoadSession(ctx context.Context) (models.Session, error) {
	raw, ok, err := p.mirror.Get(ctx, SessionMirrorKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if !ok || raw == "" {
		return models.Session{}, adapter.ErrNoSession
	}

	var session models.Session
	if err = json.Unmarshal([]byte(raw), &session); err != nil {
		return models.Session{}, fmt.Errorf("load session: %w: %w", ErrCorruptMirrorEntry, err)
	}
	if session.AccessToken == "" {
		return models.Session{}, adapter.ErrNoSession
	}
	return session, nil
}

func (p *mirrorSessionPersister) SaveSession(ctx context.Context, session models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return p.mirror.Set(ctx, SessionMirrorKey, string(raw))
}

func (p *mirrorSessionPersister) ClearSession(ctx context.Context) error {
	return p.mirror.Remove(ctx, SessionMirrorKey)
}
