package di

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-vitaltrend/cache"
	"github.com/goliatone/go-vitaltrend/config"
	"github.com/goliatone/go-vitaltrend/events"
	"github.com/goliatone/go-vitaltrend/internal/httpapi"
	"github.com/goliatone/go-vitaltrend/internal/metrics"
	"github.com/goliatone/go-vitaltrend/store"
	"github.com/goliatone/go-vitaltrend/vitalset"
)

const (
	redisRecordPrefix = "vitaltrend:records:"
	redisListPrefix   = "vitaltrend:lists:"
)

// Container wires the record service and everything it depends on from a
// config.Config. It owns every connection it opens; call Close when done.
type Container struct {
	config      config.Config
	logger      *logrus.Logger
	metrics     *metrics.Recorder
	gateway     vitalset.Gateway
	redis       *redis.Client
	recordCache *vitalset.RecordCache
	publisher   vitalset.Publisher
	service     *vitalset.Service
	closers     []func() error
}

// Option customizes how a Container is built.
type Option func(*Container)

// WithLogger sets the root logger. Components log through entries derived from it.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithGateway replaces the gateway normally built from the database config.
func WithGateway(gateway vitalset.Gateway) Option {
	return func(c *Container) {
		c.gateway = gateway
	}
}

// NewContainer validates cfg and builds the full component graph. On error
// every resource opened so far is released.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid config")
	}

	c := &Container{
		config:  cfg,
		logger:  logrus.StandardLogger(),
		metrics: metrics.NewRecorder(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.build(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithDefaults builds a Container from config.Default with the
// in-memory store, which needs no external services.
func NewContainerWithDefaults(ctx context.Context, opts ...Option) (*Container, error) {
	cfg := config.Default()
	cfg.Database.Driver = store.DriverMemory
	return NewContainer(ctx, cfg, opts...)
}

func (c *Container) build(ctx context.Context) error {
	if c.gateway == nil {
		gateway, err := c.openGateway(ctx)
		if err != nil {
			return err
		}
		c.gateway = gateway
	}

	if c.usesRedis() {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     c.config.Redis.Address,
			Password: c.config.Redis.Password,
			DB:       c.config.Redis.DB,
		})
		c.closers = append(c.closers, c.redis.Close)
	}

	recordCache, err := c.buildCache()
	if err != nil {
		return err
	}
	c.recordCache = recordCache

	publisher, err := c.buildPublisher()
	if err != nil {
		return err
	}
	c.publisher = publisher

	c.service = vitalset.NewService(c.gateway, c.recordCache, c.publisher,
		vitalset.WithLogger(c.component("vitalset/service")),
		vitalset.WithMetrics(c.metrics),
		vitalset.WithListInvalidation(c.config.Cache.InvalidateListOnWrite),
	)
	return nil
}

func (c *Container) openGateway(ctx context.Context) (vitalset.Gateway, error) {
	dbCfg := c.config.Database
	if dbCfg.Driver == store.DriverMemory {
		return store.NewMemoryGateway(), nil
	}

	db, err := store.Open(ctx, store.DBConfig{Driver: dbCfg.Driver, DSN: dbCfg.DSN})
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, db.Close)

	gateway := store.NewBunGateway(db)
	if dbCfg.AutoMigrate {
		if err := gateway.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}
	return gateway, nil
}

func (c *Container) buildCache() (*vitalset.RecordCache, error) {
	var (
		records cache.Store[vitalset.VitalSet]
		lists   cache.Store[[]vitalset.VitalSet]
	)

	switch c.config.Cache.Backend {
	case config.CacheBackendRedis:
		records = cache.NewRedisStore[vitalset.VitalSet](c.redis, cache.RedisConfig{Prefix: redisRecordPrefix, TTL: c.config.Cache.TTL})
		lists = cache.NewRedisStore[[]vitalset.VitalSet](c.redis, cache.RedisConfig{Prefix: redisListPrefix, TTL: c.config.Cache.TTL})
	default:
		memCfg := cache.Config{
			Capacity:           c.config.Cache.Capacity,
			NumShards:          c.config.Cache.NumShards,
			TTL:                c.config.Cache.TTL,
			EvictionPercentage: c.config.Cache.EvictionPercentage,
			EvictionInterval:   c.config.Cache.EvictionInterval,
		}
		var err error
		if records, err = cache.NewMemoryStore[vitalset.VitalSet](memCfg); err != nil {
			return nil, pkgerrors.Wrap(err, "record cache")
		}
		if lists, err = cache.NewMemoryStore[[]vitalset.VitalSet](memCfg); err != nil {
			return nil, pkgerrors.Wrap(err, "list cache")
		}
	}

	return vitalset.NewRecordCache(records, lists,
		vitalset.WithCacheLogger(c.component("vitalset/cache")),
		vitalset.WithCacheMetrics(c.metrics),
	), nil
}

func (c *Container) buildPublisher() (vitalset.Publisher, error) {
	topic := c.config.Events.Topic

	switch c.config.Events.Backend {
	case events.BackendKafka:
		p, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      c.config.Kafka.Brokers,
			Topic:        topic,
			BatchTimeout: c.config.Kafka.BatchTimeout,
		}, events.WithLogger(c.component("events/kafka_publisher")), events.WithRecorder(c.metrics))
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, p.Close)
		return p, nil
	case events.BackendRedis:
		p := events.NewRedisPublisher(c.redis, topic,
			events.WithLogger(c.component("events/redis_publisher")), events.WithRecorder(c.metrics))
		c.closers = append(c.closers, p.Close)
		return p, nil
	default:
		return events.NewLogPublisher(
			events.WithLogger(c.component("events/log_publisher")), events.WithRecorder(c.metrics)), nil
	}
}

func (c *Container) usesRedis() bool {
	return c.config.Cache.Backend == config.CacheBackendRedis || c.config.Events.Backend == events.BackendRedis
}

func (c *Container) component(name string) logrus.FieldLogger {
	return c.logger.WithField("type", name)
}

// Config returns a copy of the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Service() *vitalset.Service {
	return c.service
}

func (c *Container) Gateway() vitalset.Gateway {
	return c.gateway
}

func (c *Container) RecordCache() *vitalset.RecordCache {
	return c.recordCache
}

func (c *Container) Publisher() vitalset.Publisher {
	return c.publisher
}

func (c *Container) Metrics() *metrics.Recorder {
	return c.metrics
}

// NewHTTPServer builds the REST boundary over the container's service.
func (c *Container) NewHTTPServer() *httpapi.Server {
	return httpapi.NewServer(c.service,
		httpapi.WithLogger(c.component("httpapi/server")),
		httpapi.WithMetricsHandler(c.metrics.Handler()),
	)
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
