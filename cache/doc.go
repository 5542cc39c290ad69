// Package cache provides the key-value contract and key serialization used to
// cache vital set records in front of the relational store.
//
// # Overview
//
// This package exports:
//
//   - Store: a generic Get/Set/Delete contract implemented by every backend
//   - GetOrFetch: an explicit read-through helper built on Store
//   - KeySerializer: builds stable cache keys from method names and arguments
//
// Two backends are available: an in-process sturdyc cache (NewMemoryStore) and
// Redis (NewRedisStore).
//
// # Basic Usage
//
//	records, err := cache.NewMemoryStore[vitalset.VitalSet](cache.DefaultConfig())
//	keys := cache.NewKeySerializer("VitalSet")
//	key := keys.SerializeKey("FindByID", id) // vital_set::find_by_id::42
//
//	rec, err := cache.GetOrFetch(ctx, records, key, func(ctx context.Context) (vitalset.VitalSet, error) {
//		return loadFromStore(ctx, id)
//	})
//
// Fetch errors are never cached. When the backend implements Fetcher, its
// native read-through is used so concurrent misses for the same key trigger a
// single fetch.
//
// # Keys
//
// Scalars are rendered verbatim. Structs, slices and maps are JSON encoded and
// hashed with xxhash, which keeps keys bounded and stable across processes.
// Function and channel arguments fall back to their address and are only
// stable within a single process.
package cache
