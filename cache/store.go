package cache

import "context"

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[V any] func(ctx context.Context) (V, error)

// Store is the key-value contract every cache backend implements.
// A miss is reported as (zero, false, nil); err is reserved for backend failures.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error
}

// Fetcher is implemented by backends with a native read-through that
// deduplicates concurrent fetches for the same key.
type Fetcher[V any] interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (V, error)) (V, error)
}

// GetOrFetch returns the cached value for key, or calls fetchFn and caches its
// result. Errors from fetchFn are returned as is and never cached.
//
// A backend error on Get is treated as a miss; a backend error on Set is
// returned together with the fetched value so the caller can decide whether
// to surface it.
func GetOrFetch[V any](ctx context.Context, store Store[V], key string, fetchFn FetchFn[V]) (V, error) {
	if f, ok := store.(Fetcher[V]); ok {
		return f.GetOrFetch(ctx, key, fetchFn)
	}

	if value, ok, err := store.Get(ctx, key); err == nil && ok {
		return value, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	if err := store.Set(ctx, key, value); err != nil {
		return value, &WriteError{Key: key, Err: err}
	}
	return value, nil
}

// WriteError is returned by GetOrFetch when the value was fetched but could
// not be stored.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return "cache write for " + e.Key + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }
