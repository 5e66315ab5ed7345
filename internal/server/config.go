package server

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/anchor/pkg/cache"
)

// EnvPrefix prefixes every configuration variable.
const EnvPrefix = "ANCHOR"

// Config is read from ANCHOR_* environment variables.
type Config struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	// RedisAddr enables the Redis result cache. Empty means no cache.
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CacheNamespace string        `envconfig:"CACHE_NAMESPACE" default:"anchor:"`

	// LogFile switches logging from stderr to a rotating file.
	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		CacheTTL:        cache.DefaultTTL,
		CacheNamespace:  "anchor:",
		LogLevel:        "info",
		MaxBodyBytes:    1 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// RedisConfig returns the cache connection settings.
func (c Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
