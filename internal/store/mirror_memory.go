// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
)

// memoryMirror is a process-local [LocalMirror]. Nothing survives a restart.
type memoryMirror struct {
	mu      sync.RWMutex
	entries map[string]string
	closed  bool
}

// NewMemoryMirror returns an empty in-memory [LocalMirror].
func NewMemoryMirror() LocalMirror {
	return &memoryMirror{entries: make(map[string]string)}
}

func (m *memoryMirror) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrMirrorClosed
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryMirror) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMirrorClosed
	}
	m.entries[key] = value
	return nil
}

func (m *memoryMirror) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMirrorClosed
	}
	delete(m.entries, key)
	return nil
}

func (m *memoryMirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}
