package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	pkgstrings "carelock/pkg/platform/strings"
)

// StoreBackend selects where the record store keeps its collections.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StorePostgres StoreBackend = "postgres"
	StoreRedis    StoreBackend = "redis"
	StoreSQLite   StoreBackend = "sqlite"
)

// Config is the process configuration, read from CARELOCK_* variables.
type Config struct {
	Addr        string       `env:"CARELOCK_ADDR"         envDefault:":8080"`
	Environment string       `env:"CARELOCK_ENV"          envDefault:"development"`
	Store       StoreBackend `env:"CARELOCK_STORE"        envDefault:"memory"`
	DatabaseURL string       `env:"CARELOCK_DATABASE_URL"`
	SQLitePath  string       `env:"CARELOCK_SQLITE_PATH"`
	SeedOnStart bool         `env:"CARELOCK_SEED_ON_START" envDefault:"true"`
	CORSOrigins []string     `env:"CARELOCK_CORS_ORIGINS"  envSeparator:","`

	RequestTimeout  time.Duration `env:"CARELOCK_REQUEST_TIMEOUT"  envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"CARELOCK_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Log   LogConfig
	Redis RedisConfig
	Audit AuditConfig
}

type LogConfig struct {
	Level  string `env:"CARELOCK_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"CARELOCK_LOG_FORMAT" envDefault:"json"`
}

// RedisConfig configures the redis record store backend.
type RedisConfig struct {
	URL          string        `env:"CARELOCK_REDIS_URL"`
	PoolSize     int           `env:"CARELOCK_REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"CARELOCK_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"CARELOCK_REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"CARELOCK_REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"CARELOCK_REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

// AuditConfig routes audit events. Without brokers events stay in memory.
type AuditConfig struct {
	KafkaBrokers []string `env:"CARELOCK_KAFKA_BROKERS"     envSeparator:","`
	KafkaTopic   string   `env:"CARELOCK_KAFKA_AUDIT_TOPIC" envDefault:"carelock.audit"`
	Buffer       int      `env:"CARELOCK_AUDIT_BUFFER"      envDefault:"1024"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = pkgstrings.DedupeAndTrimLower(cfg.CORSOrigins)
	cfg.Audit.KafkaBrokers = pkgstrings.DedupeAndTrim(cfg.Audit.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a backend selection without its connection setting.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("CARELOCK_DATABASE_URL is required for the postgres store"))
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("CARELOCK_REDIS_URL is required for the redis store"))
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("CARELOCK_SQLITE_PATH is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CARELOCK_STORE %q", c.Store))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown CARELOCK_LOG_FORMAT %q", c.Log.Format))
	}
	if len(c.Audit.KafkaBrokers) > 0 && c.Audit.KafkaTopic == "" {
		errs = append(errs, errors.New("CARELOCK_KAFKA_AUDIT_TOPIC is required with CARELOCK_KAFKA_BROKERS"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
