package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-vitaltrend/internal/cacheinfra"
)

// Config exposes the in-process cache options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// RedisConfig configures a Redis backed Store.
type RedisConfig struct {
	// Prefix is prepended to every key, e.g. "vitaltrend:records:".
	Prefix string
	// TTL of zero keeps entries until they are evicted explicitly.
	TTL time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := cacheinfra.DefaultConfig()
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryStore constructs an in-process Store backed by sturdyc.
func NewMemoryStore[V any](cfg Config) (Store[V], error) {
	store, err := cacheinfra.NewSturdycStore[V](cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewRedisStore constructs a Store backed by Redis. Values are msgpack encoded.
func NewRedisStore[V any](client redis.Cmdable, cfg RedisConfig) Store[V] {
	return cacheinfra.NewRedisStore[V](client, cfg.Prefix, cfg.TTL)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}
