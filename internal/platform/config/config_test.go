package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CONTESTHUB_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_URL", "")

	cfg := FromEnv()
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "usd", cfg.Payments.Currency)
	assert.Equal(t, 10, cfg.RateLimit.CheckoutPerMinute)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CONTESTHUB_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092,")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("PAYMENT_CURRENCY", "EUR")
	t.Setenv("RATE_LIMIT_CONFIRM_PER_MINUTE", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "eur", cfg.Payments.Currency)
	assert.Equal(t, 30, cfg.RateLimit.ConfirmPerMinute)
}

func TestLoadReadsDotenvWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_ISSUER=from-file\nCONTESTHUB_ADDR=:7000\n"), 0o600))
	t.Setenv("CONTESTHUB_ADDR", ":8000")
	t.Setenv("JWT_ISSUER", "")
	require.NoError(t, os.Unsetenv("JWT_ISSUER"))

	cfg := Load(path)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "from-file", cfg.Auth.Issuer)
	require.NoError(t, os.Unsetenv("JWT_ISSUER"))
}

func TestAuthDefaultsAreClosed(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "")
	t.Setenv("AUTH_DEV_ISSUER", "")

	cfg := FromEnv()
	assert.Empty(t, cfg.Auth.JWTSigningKey)
	assert.False(t, cfg.Auth.DevIssuer)
	assert.ErrorContains(t, cfg.Auth.Validate(), "JWT_SIGNING_KEY is required")
}

func TestAuthValidate(t *testing.T) {
	short := AuthConfig{JWTSigningKey: "dev-secret"}
	assert.ErrorContains(t, short.Validate(), "at least 32 bytes")

	ok := AuthConfig{JWTSigningKey: "0123456789abcdef0123456789abcdef"}
	assert.NoError(t, ok.Validate())
}

func TestDevIssuerAndTracingFromEnv(t *testing.T) {
	t.Setenv("AUTH_DEV_ISSUER", "true")
	t.Setenv("OTEL_TRACES_EXPORTER", "STDOUT")
	t.Setenv("OTEL_TRACES_SAMPLE_RATIO", "0.25")

	cfg := FromEnv()
	assert.True(t, cfg.Auth.DevIssuer)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}
