package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"ffwpu/pkg/platform/middleware/metadata"
	platformstrings "ffwpu/pkg/platform/strings"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Server captures process level configuration.
type Server struct {
	Environment string
	Addr        string
	LogLevel    string
	SeedDemo    bool

	// TrustedProxies are the peers whose forwarding headers name the client.
	// Empty means every request is attributed to its peer address.
	TrustedProxies []netip.Prefix

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Recovery RecoveryConfig
}

// DatabaseConfig selects the PostgreSQL stores. An empty URL keeps everything
// in memory.
type DatabaseConfig struct {
	URL          string
	AutoMigrate  bool
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig selects the Redis-backed rate limiter.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig drives the attempt outbox relay.
type KafkaConfig struct {
	Brokers       []string
	AttemptsTopic string
	RelayInterval time.Duration
	RelayBatch    int
}

// RecoveryConfig tunes the recovery flow.
type RecoveryConfig struct {
	TokenTTL    time.Duration
	ExposeToken bool
	RateLimit   int
	RateWindow  time.Duration
}

// IsProduction reports whether APP_ENV is production.
func (c Server) IsProduction() bool {
	return c.Environment == EnvProduction
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	parseErr := func(name string, err error) {
		errs = append(errs, fmt.Sprintf("%s: %v", name, err))
	}

	cfg := Server{
		Environment: envOr("APP_ENV", EnvDevelopment),
		Addr:        envOr("HTTP_ADDR", ":8080"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       platformstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			AttemptsTopic: envOr("KAFKA_ATTEMPTS_TOPIC", "recovery.attempts"),
			RelayInterval: 2 * time.Second,
			RelayBatch:    100,
		},
	}

	var err error
	if cfg.TrustedProxies, err = metadata.ParseTrustedProxies(platformstrings.SplitList(os.Getenv("TRUSTED_PROXIES"))); err != nil {
		parseErr("TRUSTED_PROXIES", err)
	}
	if cfg.SeedDemo, err = envBool("SEED_DEMO", false); err != nil {
		parseErr("SEED_DEMO", err)
	}
	if cfg.Database.AutoMigrate, err = envBool("DB_AUTO_MIGRATE", true); err != nil {
		parseErr("DB_AUTO_MIGRATE", err)
	}
	if cfg.Recovery.TokenTTL, err = envDuration("RECOVERY_TOKEN_TTL", 24*time.Hour); err != nil {
		parseErr("RECOVERY_TOKEN_TTL", err)
	}
	if cfg.Recovery.ExposeToken, err = envBool("RECOVERY_EXPOSE_TOKEN", false); err != nil {
		parseErr("RECOVERY_EXPOSE_TOKEN", err)
	}
	if cfg.Recovery.RateLimit, err = envInt("RECOVERY_RATE_LIMIT", 10); err != nil {
		parseErr("RECOVERY_RATE_LIMIT", err)
	}
	if cfg.Recovery.RateWindow, err = envDuration("RECOVERY_RATE_WINDOW", 15*time.Minute); err != nil {
		parseErr("RECOVERY_RATE_WINDOW", err)
	}

	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that must never start.
func (c Server) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("invalid configuration: APP_ENV %q is not one of development, staging, production", c.Environment)
	}
	if c.IsProduction() && c.Recovery.ExposeToken {
		return fmt.Errorf("invalid configuration: RECOVERY_EXPOSE_TOKEN must not be enabled in production")
	}
	if c.Recovery.TokenTTL <= 0 {
		return fmt.Errorf("invalid configuration: RECOVERY_TOKEN_TTL must be positive")
	}
	if c.Recovery.RateLimit <= 0 || c.Recovery.RateWindow <= 0 {
		return fmt.Errorf("invalid configuration: RECOVERY_RATE_LIMIT and RECOVERY_RATE_WINDOW must be positive")
	}
	if c.SeedDemo && c.Database.URL != "" {
		return fmt.Errorf("invalid configuration: SEED_DEMO only applies to in-memory stores")
	}
	return nil
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func envBool(name string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func envInt(name string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
