package vitalset

import (
	"context"
	"errors"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-vitaltrend/cache"
)

const (
	recordCacheName = "record"
	listCacheName   = "list"
)

// Cache is the record-level cache the Service drives explicitly around every
// Gateway call. Backend failures never reach the caller; only load errors do.
type Cache interface {
	// Record returns the cached record for id, calling load on a miss.
	Record(ctx context.Context, id int64, load func(context.Context) (VitalSet, error)) (VitalSet, error)
	PutRecord(ctx context.Context, rec VitalSet)
	EvictRecord(ctx context.Context, id int64)
	// All returns the cached list, calling load on a miss.
	All(ctx context.Context, load func(context.Context) ([]VitalSet, error)) ([]VitalSet, error)
	EvictAll(ctx context.Context)
}

// RecordCache implements Cache over two stores: one entry per record keyed by
// identifier and a single list-level entry.
//
// Every put and evict bumps a per-key generation. A read-through whose load
// overlapped a bump drops the value it populated, so a load that started
// before a write never outlives it in the cache.
type RecordCache struct {
	records cache.Store[VitalSet]
	lists   cache.Store[[]VitalSet]
	keys    cache.KeySerializer
	gens    *xsync.MapOf[string, uint64]
	metrics Metrics
	logger  logrus.FieldLogger
}

// CacheOption configures a RecordCache.
type CacheOption func(*RecordCache)

// WithCacheLogger sets the logger used to report backend failures.
func WithCacheLogger(logger logrus.FieldLogger) CacheOption {
	return func(c *RecordCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCacheMetrics reports hits and misses to m.
func WithCacheMetrics(m Metrics) CacheOption {
	return func(c *RecordCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithKeySerializer overrides the default "vital_set" key namespace.
func WithKeySerializer(keys cache.KeySerializer) CacheOption {
	return func(c *RecordCache) {
		if keys != nil {
			c.keys = keys
		}
	}
}

// NewRecordCache builds the cache layer over the given stores.
func NewRecordCache(records cache.Store[VitalSet], lists cache.Store[[]VitalSet], opts ...CacheOption) *RecordCache {
	c := &RecordCache{
		records: records,
		lists:   lists,
		keys:    cache.NewKeySerializer("VitalSet"),
		gens:    xsync.NewMapOf[string, uint64](),
		metrics: nopMetrics{},
		logger:  logrus.StandardLogger().WithField("type", "vitalset/cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecordKey is the cache key of a single record.
func (c *RecordCache) RecordKey(id int64) string {
	return c.keys.SerializeKey("FindByID", id)
}

// ListKey is the cache key of the full list.
func (c *RecordCache) ListKey() string {
	return c.keys.SerializeKey("FindAll")
}

func (c *RecordCache) Record(ctx context.Context, id int64, load func(context.Context) (VitalSet, error)) (VitalSet, error) {
	rec, err := readThrough(ctx, c, c.records, recordCacheName, c.RecordKey(id), load)
	if err != nil {
		return VitalSet{}, err
	}
	return rec, nil
}

func (c *RecordCache) PutRecord(ctx context.Context, rec VitalSet) {
	key := c.RecordKey(rec.ID)
	c.bump(key)
	if err := c.records.Set(ctx, key, rec); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("failed to write record cache")
	}
}

func (c *RecordCache) EvictRecord(ctx context.Context, id int64) {
	key := c.RecordKey(id)
	c.bump(key)
	if err := c.records.Delete(ctx, key); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("failed to evict record cache")
	}
}

func (c *RecordCache) All(ctx context.Context, load func(context.Context) ([]VitalSet, error)) ([]VitalSet, error) {
	records, err := readThrough(ctx, c, c.lists, listCacheName, c.ListKey(), load)
	if err != nil {
		return nil, err
	}
	// the cached slice is shared, hand out a copy
	return slices.Clone(records), nil
}

func (c *RecordCache) EvictAll(ctx context.Context) {
	key := c.ListKey()
	c.bump(key)
	if err := c.lists.Delete(ctx, key); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("failed to evict list cache")
	}
}

// bump must run before the backend write it guards.
func (c *RecordCache) bump(key string) {
	c.gens.Compute(key, func(old uint64, _ bool) (uint64, bool) {
		return old + 1, false
	})
}

func (c *RecordCache) generation(key string) uint64 {
	gen, _ := c.gens.Load(key)
	return gen
}

// readThrough counts a hit only when the explicit Get finds the entry; callers
// merged into another caller's fetch are misses too.
func readThrough[V any](ctx context.Context, c *RecordCache, store cache.Store[V], name, key string, load func(context.Context) (V, error)) (V, error) {
	logger := c.logger.WithField("key", key).WithField("cache", name)

	v, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("failed to read cache")
	}
	if err == nil && ok {
		c.metrics.CacheLookup(name, true)
		return v, nil
	}
	c.metrics.CacheLookup(name, false)

	gen := c.generation(key)
	v, err = cache.GetOrFetch[V](ctx, store, key, load)
	if err != nil {
		var werr *cache.WriteError
		if !errors.As(err, &werr) {
			var zero V
			return zero, err
		}
		logger.WithError(err).Warn("failed to populate cache")
		return v, nil
	}

	if c.generation(key) != gen {
		if err := store.Delete(ctx, key); err != nil {
			logger.WithError(err).Warn("failed to drop stale cache entry")
		}
	}
	return v, nil
}
