package config

import (
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/goliatone/go-vitaltrend/events"
	"github.com/goliatone/go-vitaltrend/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// VITALTREND_DATABASE_DSN overrides database.dsn.
const EnvPrefix = "VITALTREND"

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config is the application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Events   EventsConfig   `mapstructure:"events"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Address             string        `mapstructure:"address"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type CacheConfig struct {
	Backend               string        `mapstructure:"backend"`
	Capacity              int           `mapstructure:"capacity"`
	NumShards             int           `mapstructure:"num_shards"`
	TTL                   time.Duration `mapstructure:"ttl"`
	EvictionPercentage    int           `mapstructure:"eviction_percentage"`
	EvictionInterval      time.Duration `mapstructure:"eviction_interval"`
	InvalidateListOnWrite bool          `mapstructure:"invalidate_list_on_write"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type EventsConfig struct {
	Backend string `mapstructure:"backend"`
	Topic   string `mapstructure:"topic"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

var defaults = map[string]any{
	"log.level":  "info",
	"log.format": "text",

	"http.address":               ":8080",
	"http.shutdown_grace_period": 15 * time.Second,

	"database.driver":       store.DriverSQLite,
	"database.dsn":          "file:vitaltrend.db?cache=shared",
	"database.auto_migrate": true,

	"cache.backend":                  CacheBackendMemory,
	"cache.capacity":                 10000,
	"cache.num_shards":               256,
	"cache.ttl":                      5 * time.Minute,
	"cache.eviction_percentage":      10,
	"cache.eviction_interval":        time.Duration(0),
	"cache.invalidate_list_on_write": false,

	"redis.address":  "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"events.backend": events.BackendLog,
	"events.topic":   events.DefaultTopic,

	"kafka.brokers":       []string{"localhost:9092"},
	"kafka.batch_timeout": 10 * time.Millisecond,
}

// Default returns the configuration built from defaults alone, ignoring the
// environment.
func Default() Config {
	var cfg Config
	// defaults always decode
	_ = newViper().Unmarshal(&cfg)
	return cfg
}

// Load reads configuration from defaults, the optional file at path and
// VITALTREND_* environment variables, in increasing order of precedence.
// An explicit path that does not exist is an error.
func Load(path string) (Config, error) {
	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, pkgerrors.Wrap(err, "failed to check config file")
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, pkgerrors.Wrapf(err, "failed to read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, pkgerrors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Log),
		validation.Field(&c.HTTP),
		validation.Field(&c.Database),
		validation.Field(&c.Cache),
		validation.Field(&c.Redis, validation.Skip.When(!c.usesRedis())),
		validation.Field(&c.Events),
		validation.Field(&c.Kafka, validation.Skip.When(c.Events.Backend != events.BackendKafka)),
	)
}

func (c Config) usesRedis() bool {
	return c.Cache.Backend == CacheBackendRedis || c.Events.Backend == events.BackendRedis
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal", "panic")),
		validation.Field(&c.Format, validation.Required, validation.In("text", "json")),
	)
}

func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.ShutdownGracePeriod, validation.Min(time.Duration(0))),
	)
}

func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(store.DriverSQLite, store.DriverPostgres, store.DriverMemory)),
		validation.Field(&c.DSN, validation.When(c.Driver != store.DriverMemory, validation.Required)),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(CacheBackendMemory, CacheBackendRedis)),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

func (c RedisConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

func (c EventsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(events.BackendKafka, events.BackendRedis, events.BackendLog)),
		validation.Field(&c.Topic, validation.Required),
	)
}

func (c KafkaConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Brokers, validation.Required),
		validation.Field(&c.BatchTimeout, validation.Min(time.Duration(0))),
	)
}
