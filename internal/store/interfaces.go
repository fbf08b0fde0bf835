// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalMirror is a durable string key/value store on the user's machine.
// It is the last-resort copy of catalog collections and the home of the
// persisted auth session. Values are opaque to the mirror.
type LocalMirror interface {
	// Get returns the value stored under key; ok is false when the key
	// has never been written or was removed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the underlying storage.
	Close() error
}
