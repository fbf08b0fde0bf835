// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReadCollection decodes the JSON array stored under key. A missing key
// yields an empty, non-nil collection.
func ReadCollection[T any](ctx context.Context, m LocalMirror, key string) ([]T, error) {
	raw, ok, err := m.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read mirror collection %q: %w", key, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err = json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("read mirror collection %q: %w: %w", key, ErrCorruptMirrorEntry, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// WriteCollection replaces the collection stored under key with items.
func WriteCollection[T any](ctx context.Context, m LocalMirror, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode mirror collection %q: %w", key, err)
	}
	if err = m.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write mirror collection %q: %w", key, err)
	}
	return nil
}
