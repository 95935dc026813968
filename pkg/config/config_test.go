package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 0, cfg.Availability.DefaultWeekResetDay)
	assert.Equal(t, time.Minute, cfg.Availability.CacheTTL)
	assert.Equal(t, float64(5), cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DEFAULT_WEEK_RESET_DAY", "6")
	t.Setenv("AVAILABILITY_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6, cfg.Availability.DefaultWeekResetDay)
	assert.Equal(t, time.Minute, cfg.Availability.CacheTTL)
}

func TestLoadClampsWeekResetDay(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DEFAULT_WEEK_RESET_DAY", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Availability.DefaultWeekResetDay)
}

// chdirTemp moves into an empty directory so no .env file is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
