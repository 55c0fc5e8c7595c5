package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/repool/pkg/config"
	"github.com/ajitpratap0/repool/pkg/pool"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPoolConfig(t *testing.T) {
	path := writeFile(t, `
name: billing-db
max_size: 16
queue_mode: lifo
timeouts:
  wait: 5s
  recycle: 500ms
`)

	var cfg config.PoolConfig
	require.NoError(t, config.Load(path, &cfg))
	assert.Equal(t, "billing-db", cfg.Name)

	settings, err := cfg.PoolSettings()
	require.NoError(t, err)
	assert.Equal(t, 16, settings.MaxSize)
	assert.Equal(t, pool.LIFO, settings.QueueMode)
	require.NotNil(t, settings.Timeouts.Wait)
	assert.Equal(t, 5*time.Second, *settings.Timeouts.Wait)
	require.NotNil(t, settings.Timeouts.Recycle)
	assert.Equal(t, 500*time.Millisecond, *settings.Timeouts.Recycle)
	assert.Nil(t, settings.Timeouts.Create)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("POOL_MAX_SIZE", "8")
	path := writeFile(t, "max_size: ${POOL_MAX_SIZE}\n")

	var cfg config.PoolConfig
	require.NoError(t, config.Load(path, &cfg))
	assert.Equal(t, 8, cfg.MaxSize)
}

func TestPoolSettingsDefaults(t *testing.T) {
	settings, err := config.PoolConfig{}.PoolSettings()
	require.NoError(t, err)
	assert.Equal(t, pool.DefaultMaxSize(), settings.MaxSize)
	assert.Equal(t, pool.FIFO, settings.QueueMode)
}

func TestPoolSettingsRejectsBadQueueMode(t *testing.T) {
	_, err := config.PoolConfig{QueueMode: "random"}.PoolSettings()
	assert.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := writeFile(t, "timeouts:\n  wait: banana\n")
	var cfg config.PoolConfig
	assert.Error(t, config.Load(path, &cfg))
}

func TestSaveRoundTrip(t *testing.T) {
	wait := config.Duration(2 * time.Second)
	in := config.PoolConfig{
		Name:     "cache",
		MaxSize:  4,
		Timeouts: config.TimeoutsConfig{Wait: &wait},
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, config.Save(path, in))

	var out config.PoolConfig
	require.NoError(t, config.Load(path, &out))
	assert.Equal(t, in, out)
}
