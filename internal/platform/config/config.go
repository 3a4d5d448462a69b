package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config is the full service configuration, populated from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Server   Server
	Store    Store
	Postgres Postgres
	Redis    RedisConfig
	Kafka    Kafka
	Clients  Clients
	Filing   Filing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type Store struct {
	Backend string `env:"STORE_BACKEND" envDefault:"memory"`
}

type Postgres struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"5m"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Kafka configures the filing event producer. No brokers means events are
// logged only.
type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	FilingTopic string   `env:"KAFKA_FILING_TOPIC" envDefault:"psc-filing-events"`
	ClientID    string   `env:"KAFKA_CLIENT_ID" envDefault:"psc-filing-api"`
	AuditBuffer int      `env:"KAFKA_AUDIT_BUFFER" envDefault:"256"`
}

// Enabled reports whether any broker is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

// Clients configures the outbound API clients.
type Clients struct {
	TransactionsURL   string        `env:"TRANSACTIONS_API_URL" envDefault:"http://localhost:18000"`
	PscURL            string        `env:"PSC_API_URL" envDefault:"http://localhost:18001"`
	CompanyProfileURL string        `env:"COMPANY_PROFILE_API_URL" envDefault:"http://localhost:18002"`
	Timeout           time.Duration `env:"API_TIMEOUT" envDefault:"5s"`
	BreakerThreshold  int           `env:"API_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown   time.Duration `env:"API_BREAKER_COOLDOWN" envDefault:"10s"`
}

type Filing struct {
	PatchMaxRetries int    `env:"PATCH_MAX_RETRIES" envDefault:"3"`
	RulesFile       string `env:"FILING_RULES_FILE"`
	PublicBasePath  string `env:"PUBLIC_BASE_PATH" envDefault:"/transactions"`

	Rules Rules `env:"-"`
}

// Load parses the environment and the optional rules file.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	rules, err := LoadRules(cfg.Filing.RulesFile)
	if err != nil {
		return nil, err
	}
	cfg.Filing.Rules = rules
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend))
	}
	if c.Filing.PatchMaxRetries < 1 {
		errs = append(errs, errors.New("PATCH_MAX_RETRIES must be at least 1"))
	}
	if c.Clients.Timeout <= 0 {
		errs = append(errs, errors.New("API_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
