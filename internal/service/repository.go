package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/store"
	"github.com/MKhiriev/go-tech-support/internal/utils"
)

// Record is the capability set a catalog record exposes to
// [ResilientRepository]. P is the record's patch type.
type Record[T any, P any] interface {
	Identity() string
	WithIdentity(id string) T
	Merge(patch P) T
}

// Schema binds a repository to its remote table and mirror key.
type Schema struct {
	// Entity labels logs and metrics, e.g. "driver".
	Entity    string
	Table     string
	MirrorKey string
}

const (
	opList   = "list"
	opGet    = "get"
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
	opSeed   = "seed"
)

// ResilientRepository serves one entity from the remote row store and falls
// back to the local mirror collection when the remote call fails. Callers
// see an error only when both fail.
//
// After a successful remote list or write the mirror collection is
// overwritten with the remote rows. Mirror read-modify-write cycles are
// serialized by mu.
type ResilientRepository[T Record[T, P], P any] struct {
	schema  Schema
	rows    adapter.RowStore
	mirror  store.LocalMirror
	metrics *Metrics
	newID   func() string

	mu sync.Mutex
}

// NewResilientRepository returns a repository for schema. metrics may be nil.
func NewResilientRepository[T Record[T, P], P any](schema Schema, rows adapter.RowStore, mirror store.LocalMirror, metrics *Metrics) *ResilientRepository[T, P] {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &ResilientRepository[T, P]{
		schema:  schema,
		rows:    rows,
		mirror:  mirror,
		metrics: metrics,
		newID:   utils.NewLocalID,
	}
}

// Schema returns the table and mirror key the repository is bound to.
func (r *ResilientRepository[T, P]) Schema() Schema {
	return r.schema
}

// List returns every record. An empty collection is an empty, non-nil slice.
func (r *ResilientRepository[T, P]) List(ctx context.Context) ([]T, error) {
	var rows []T
	remoteErr := r.rows.Select(ctx, r.schema.Table, nil, &rows)
	if remoteErr == nil {
		if rows == nil {
			rows = []T{}
		}
		r.mu.Lock()
		r.storeMirror(ctx, opList, rows)
		r.mu.Unlock()
		return rows, nil
	}
	r.fallback(ctx, opList, remoteErr)

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadMirror(ctx)
	if err != nil {
		return nil, r.bothFailed(ctx, opList, remoteErr, err)
	}
	return items, nil
}

// Get returns the record with id or nil when there is none. A reachable
// remote store that has no such row wins over the mirror.
func (r *ResilientRepository[T, P]) Get(ctx context.Context, id string) (*T, error) {
	var rows []T
	remoteErr := r.rows.Select(ctx, r.schema.Table, adapter.Eq{"id": id}, &rows)
	if remoteErr == nil {
		if len(rows) == 0 {
			return nil, nil
		}
		return &rows[0], nil
	}
	r.fallback(ctx, opGet, remoteErr)

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadMirror(ctx)
	if err != nil {
		return nil, r.bothFailed(ctx, opGet, remoteErr, err)
	}
	for i := range items {
		if items[i].Identity() == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Add stores record and returns it as stored. When the remote store fails
// the record gets a time-based local id unless it already carries one.
func (r *ResilientRepository[T, P]) Add(ctx context.Context, record T) (T, error) {
	var rows []T
	remoteErr := r.rows.Insert(ctx, r.schema.Table, record, &rows)
	if remoteErr == nil {
		r.refreshMirror(ctx, opAdd)
		if len(rows) == 0 {
			return record, nil
		}
		return rows[0], nil
	}
	r.fallback(ctx, opAdd, remoteErr)

	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	items, err := r.loadMirror(ctx)
	if err != nil {
		return zero, r.bothFailed(ctx, opAdd, remoteErr, err)
	}

	created := record
	if created.Identity() == "" {
		created = created.WithIdentity(r.newID())
	}
	items = append(items, created)
	if err = r.writeMirror(ctx, items); err != nil {
		return zero, r.bothFailed(ctx, opAdd, remoteErr, err)
	}
	return created, nil
}

// Update applies patch to the record with id and returns the result, or nil
// when no such record exists.
func (r *ResilientRepository[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	var rows []T
	remoteErr := r.rows.Update(ctx, r.schema.Table, adapter.Eq{"id": id}, patch, &rows)
	if remoteErr == nil {
		r.refreshMirror(ctx, opUpdate)
		if len(rows) == 0 {
			return nil, nil
		}
		return &rows[0], nil
	}
	r.fallback(ctx, opUpdate, remoteErr)

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadMirror(ctx)
	if err != nil {
		return nil, r.bothFailed(ctx, opUpdate, remoteErr, err)
	}

	var updated *T
	for i := range items {
		if items[i].Identity() == id {
			items[i] = items[i].Merge(patch)
			merged := items[i]
			updated = &merged
		}
	}
	if updated == nil {
		return nil, nil
	}
	if err = r.writeMirror(ctx, items); err != nil {
		return nil, r.bothFailed(ctx, opUpdate, remoteErr, err)
	}
	return updated, nil
}

// Delete removes the record with id. Removing a missing record succeeds.
func (r *ResilientRepository[T, P]) Delete(ctx context.Context, id string) error {
	remoteErr := r.rows.Delete(ctx, r.schema.Table, adapter.Eq{"id": id})
	if remoteErr == nil {
		r.refreshMirror(ctx, opDelete)
		return nil
	}
	r.fallback(ctx, opDelete, remoteErr)

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadMirror(ctx)
	if err != nil {
		return r.bothFailed(ctx, opDelete, remoteErr, err)
	}

	kept := items[:0]
	for _, item := range items {
		if item.Identity() != id {
			kept = append(kept, item)
		}
	}
	if err = r.writeMirror(ctx, kept); err != nil {
		return r.bothFailed(ctx, opDelete, remoteErr, err)
	}
	return nil
}

// Seed inserts records that are not stored yet. Existing rows are left
// untouched, so seeding twice is harmless.
func (r *ResilientRepository[T, P]) Seed(ctx context.Context, records ...T) error {
	if len(records) == 0 {
		return nil
	}

	remoteErr := r.rows.Upsert(ctx, r.schema.Table, records, adapter.UpsertOptions{IgnoreDuplicates: true})
	if remoteErr == nil {
		r.refreshMirror(ctx, opSeed)
		return nil
	}
	r.fallback(ctx, opSeed, remoteErr)

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadMirror(ctx)
	if err != nil {
		return r.bothFailed(ctx, opSeed, remoteErr, err)
	}

	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.Identity()] = struct{}{}
	}
	added := 0
	for _, record := range records {
		if _, ok := known[record.Identity()]; ok {
			continue
		}
		known[record.Identity()] = struct{}{}
		items = append(items, record)
		added++
	}
	if added == 0 {
		return nil
	}
	if err = r.writeMirror(ctx, items); err != nil {
		return r.bothFailed(ctx, opSeed, remoteErr, err)
	}
	return nil
}

// refreshMirror replaces the mirror collection with the remote rows after a
// successful write. Failures are logged and counted only.
func (r *ResilientRepository[T, P]) refreshMirror(ctx context.Context, op string) {
	var rows []T
	if err := r.rows.Select(ctx, r.schema.Table, nil, &rows); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "ResilientRepository.refreshMirror").
			Str("entity", r.schema.Entity).
			Str("operation", op).
			Str("table", r.schema.Table).
			Msg("could not re-read remote rows for the local mirror")
		return
	}
	if rows == nil {
		rows = []T{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeMirror(ctx, op, rows)
}

// storeMirror overwrites the mirror collection, logging failures. Callers
// hold mu.
func (r *ResilientRepository[T, P]) storeMirror(ctx context.Context, op string, rows []T) {
	if err := r.writeMirror(ctx, rows); err != nil {
		r.metrics.MirrorFailures.WithLabelValues(r.schema.Entity, op).Inc()
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "ResilientRepository.storeMirror").
			Str("entity", r.schema.Entity).
			Str("operation", op).
			Msg("could not update the local mirror")
	}
}

func (r *ResilientRepository[T, P]) loadMirror(ctx context.Context) ([]T, error) {
	return store.ReadCollection[T](ctx, r.mirror, r.schema.MirrorKey)
}

func (r *ResilientRepository[T, P]) writeMirror(ctx context.Context, items []T) error {
	return store.WriteCollection(ctx, r.mirror, r.schema.MirrorKey, items)
}

func (r *ResilientRepository[T, P]) fallback(ctx context.Context, op string, remoteErr error) {
	r.metrics.RemoteFallbacks.WithLabelValues(r.schema.Entity, op).Inc()
	logger.FromContext(ctx).Warn().Err(remoteErr).
		Str("func", "ResilientRepository.fallback").
		Str("entity", r.schema.Entity).
		Str("operation", op).
		Str("table", r.schema.Table).
		Msg("remote store failed, falling back to local mirror")
}

func (r *ResilientRepository[T, P]) bothFailed(ctx context.Context, op string, remoteErr, mirrorErr error) error {
	r.metrics.MirrorFailures.WithLabelValues(r.schema.Entity, op).Inc()
	logger.FromContext(ctx).Err(mirrorErr).
		Str("func", "ResilientRepository."+op).
		Str("entity", r.schema.Entity).
		Str("operation", op).
		Msg("local mirror failed after remote store failure")

	return fmt.Errorf("%s %s: %w", r.schema.Entity, op, errors.Join(ErrStoreUnavailable, remoteErr, mirrorErr))
}
