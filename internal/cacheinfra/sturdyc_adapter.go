package cacheinfra

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// Config sizes the in-process cache. Entries live for TTL; when Capacity is
// reached EvictionPercentage of the entries are dropped.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	// EvictionInterval of zero keeps the sturdyc default sweep interval.
	EvictionInterval time.Duration
}

// DefaultConfig sizes the cache for a single service instance.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate reports out of range sizes and durations.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

func (c Config) options() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// SturdycStore is an in-process cache store for values of type V.
type SturdycStore[V any] struct {
	client *sturdyc.Client[V]
}

// NewSturdycStore validates cfg and initializes a sturdyc client with it.
func NewSturdycStore[V any](cfg Config) (*SturdycStore[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[V](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.options()...,
	)

	return &SturdycStore[V]{client: client}, nil
}

func (s *SturdycStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	value, ok := s.client.Get(key)
	return value, ok, nil
}

func (s *SturdycStore[V]) Set(_ context.Context, key string, value V) error {
	s.client.Set(key, value)
	return nil
}

func (s *SturdycStore[V]) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// GetOrFetch uses sturdyc's read-through, which deduplicates concurrent
// fetches for the same key. Errors returned by fetchFn are not cached.
func (s *SturdycStore[V]) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (V, error)) (V, error) {
	return s.client.GetOrFetch(ctx, key, fetchFn)
}

// Size returns the number of entries currently held.
func (s *SturdycStore[V]) Size() int {
	return s.client.Size()
}
