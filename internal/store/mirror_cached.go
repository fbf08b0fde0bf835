// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// cachedMirror is a read-through LRU cache with TTL in front of another
// [LocalMirror]. Writes go to the underlying mirror first and only reach the
// cache when they succeed.
type cachedMirror struct {
	next  LocalMirror
	cache *expirable.LRU[string, string]

	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewCachedMirror wraps next with an LRU cache of at most size keys, each
// served for at most ttl. A size below one returns next unchanged. The hit
// and miss counters are registered with reg; a nil reg leaves them
// unregistered.
func NewCachedMirror(next LocalMirror, size int, ttl time.Duration, reg prometheus.Registerer) LocalMirror {
	if size < 1 {
		return next
	}

	factory := promauto.With(reg)
	return &cachedMirror{
		next:  next,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "techsupport_mirror_cache_hits_total",
			Help: "Number of Local Mirror reads served from the in-process cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "techsupport_mirror_cache_misses_total",
			Help: "Number of Local Mirror reads that went to the underlying storage.",
		}),
	}
}

func (c *cachedMirror) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		c.hits.Inc()
		return v, true, nil
	}
	c.misses.Inc()

	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	c.cache.Add(key, v)
	return v, true, nil
}

func (c *cachedMirror) Set(ctx context.Context, key, value string) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, value)
	return nil
}

func (c *cachedMirror) Remove(ctx context.Context, key string) error {
	c.cache.Remove(key)
	return c.next.Remove(ctx, key)
}

func (c *cachedMirror) Close() error {
	c.cache.Purge()
	return c.next.Close()
}
