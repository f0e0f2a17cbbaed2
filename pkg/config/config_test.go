package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, "cashier123", cfg.Auth.CashierPassword)
	assert.Equal(t, 3*time.Second, cfg.Mirror.StatusReset)
	assert.Zero(t, cfg.Mirror.PushTimeout)
	assert.Equal(t, "$", cfg.Ledger.CurrencySymbol)
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "BOLT")
	t.Setenv("ENABLE_MIRROR", "true")
	t.Setenv("MIRROR_PUSH_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverBolt, cfg.Storage.Driver)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Mirror.PushTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
