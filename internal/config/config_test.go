package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/xjtu-sim/internal/store"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 0.4, cfg.FlavorChance)
	assert.Equal(t, 8*time.Second, cfg.FlavorTimeout)
	assert.Equal(t, "file", cfg.Store)
	assert.Equal(t, "current", cfg.Slot)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("XJTU_STORE", "bolt")
	t.Setenv("XJTU_BOLT_PATH", "/tmp/game.bolt")
	t.Setenv("XJTU_COMPRESS", "true")
	t.Setenv("XJTU_FLAVOR_CHANCE", "0.25")
	t.Setenv("XJTU_SEED", "42")
	t.Setenv("XJTU_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(noEnvFile(t))
	require.NoError(t, err)

	opts := cfg.StoreOptions()
	assert.Equal(t, store.KindBolt, opts.Kind)
	assert.Equal(t, "/tmp/game.bolt", opts.BoltPath)
	assert.True(t, opts.Compress)
	assert.Equal(t, 0.25, cfg.FlavorChance)
	assert.Equal(t, int64(42), cfg.Seed)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("XJTU_REDIS_DB=3\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("XJTU_REDIS_DB") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 3, cfg.StoreOptions().Redis.DB)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bad number", "XJTU_REDIS_DB", "two", "parse env:"},
		{"unknown store", "XJTU_STORE", "postgres", "unknown store kind"},
		{"chance out of range", "XJTU_FLAVOR_CHANCE", "1.5", "outside [0,1]"},
		{"bad log level", "XJTU_LOG_LEVEL", "loud", "XJTU_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig(noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFlavorEnabled(t *testing.T) {
	assert.False(t, (&Config{}).FlavorEnabled())
	assert.False(t, (&Config{GeminiAPIKey: "k"}).FlavorEnabled())
	assert.True(t, (&Config{GeminiAPIKey: "k", FlavorChance: 0.4}).FlavorEnabled())
}
