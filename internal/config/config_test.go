package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 9090, cfg.MetricsPort)
	require.Equal(t, 168*time.Hour, cfg.JWTExpiration)
	require.Equal(t, "novel-graphql-api", cfg.JWTIssuer)
	require.Equal(t, "novel-graphql-client", cfg.JWTAudience)
	require.Equal(t, "token", cfg.AuthCookieName)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, DriverMemory, cfg.StoreDriver)
	require.Equal(t, 100, cfg.RateLimitMax)
	require.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 30, cfg.ShutdownTimeout)
	require.True(t, cfg.IsDevelopment())
	require.False(t, cfg.IsProduction())
}

func TestLoadRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "restored-after-test")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreDriver: DriverPostgres, RateLimitMax: 1, ShutdownTimeout: 30}
	require.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg.DatabaseURL = "postgres://localhost/novels"
	require.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	require.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")

	cfg = &Config{StoreDriver: DriverMemory, ShutdownTimeout: 30}
	require.ErrorContains(t, cfg.Validate(), "RATE_LIMIT_MAX")

	cfg = &Config{StoreDriver: DriverMemory, RateLimitMax: 1}
	require.ErrorContains(t, cfg.Validate(), "SHUTDOWN_TIMEOUT")
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
