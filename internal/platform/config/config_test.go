package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, name := range []string{
		"APP_ENV", "HTTP_ADDR", "LOG_LEVEL", "DATABASE_URL", "DB_AUTO_MIGRATE", "REDIS_URL",
		"KAFKA_BROKERS", "KAFKA_ATTEMPTS_TOPIC", "RECOVERY_TOKEN_TTL", "RECOVERY_EXPOSE_TOKEN",
		"RECOVERY_RATE_LIMIT", "RECOVERY_RATE_WINDOW", "SEED_DEMO", "TRUSTED_PROXIES",
	} {
		t.Setenv(name, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Recovery.TokenTTL)
	assert.False(t, cfg.Recovery.ExposeToken)
	assert.Equal(t, 10, cfg.Recovery.RateLimit)
	assert.Equal(t, 15*time.Minute, cfg.Recovery.RateWindow)
	assert.Equal(t, "recovery.attempts", cfg.Kafka.AttemptsTopic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,k1:9092")
	t.Setenv("RECOVERY_TOKEN_TTL", "2h")
	t.Setenv("RECOVERY_EXPOSE_TOKEN", "true")
	t.Setenv("RECOVERY_RATE_LIMIT", "3")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Recovery.TokenTTL)
	assert.True(t, cfg.Recovery.ExposeToken)
	assert.Equal(t, 3, cfg.Recovery.RateLimit)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
	}, cfg.TrustedProxies)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("RECOVERY_TOKEN_TTL", "one day")
	t.Setenv("RECOVERY_RATE_LIMIT", "ten")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,lb.internal")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
	assert.Contains(t, err.Error(), "RECOVERY_TOKEN_TTL")
	assert.Contains(t, err.Error(), "RECOVERY_RATE_LIMIT")
}

func TestValidate(t *testing.T) {
	valid := func() Server {
		return Server{
			Environment: EnvDevelopment,
			Recovery:    RecoveryConfig{TokenTTL: time.Hour, RateLimit: 1, RateWindow: time.Minute},
		}
	}

	t.Run("token exposure refused in production", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = EnvProduction
		cfg.Recovery.ExposeToken = true
		assert.ErrorContains(t, cfg.Validate(), "RECOVERY_EXPOSE_TOKEN")
	})

	t.Run("token exposure allowed in staging", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = EnvStaging
		cfg.Recovery.ExposeToken = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown environment", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = "qa"
		assert.Error(t, cfg.Validate())
	})

	t.Run("seed demo with database", func(t *testing.T) {
		cfg := valid()
		cfg.SeedDemo = true
		cfg.Database.URL = "postgres://localhost/ffwpu"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Recovery.TokenTTL = 0
		assert.Error(t, cfg.Validate())
	})
}
