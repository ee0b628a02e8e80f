package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jenga.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
tower:
  cheat_chances: 0
  seed: 42
logging:
  level: debug
  no_color: true
eventbus:
  capacity: 16
telemetry:
  enabled: true
  service_name: jenga-test
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Tower.GetCheatChances(), "явный 0 не заменяется дефолтом")
	assert.Equal(t, int64(42), cfg.Tower.GetSeed())
	assert.Equal(t, "debug", cfg.Logging.GetLevel())
	assert.True(t, cfg.Logging.NoColor)
	assert.Equal(t, 16, cfg.EventBus.GetCapacity())
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "jenga-test", cfg.Telemetry.GetServiceName())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JENGA_CONFIG", "")
	t.Setenv("JENGA_CHEAT_CHANCES", "")
	t.Setenv("JENGA_SEED", "")
	t.Setenv("JENGA_LOG_LEVEL", "")
	t.Setenv("JENGA_EVENTBUS_CAPACITY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCheatChances, cfg.Tower.GetCheatChances())
	assert.Equal(t, int64(0), cfg.Tower.GetSeed())
	assert.Equal(t, DefaultLogLevel, cfg.Logging.GetLevel())
	assert.Equal(t, DefaultEventBusCapacity, cfg.EventBus.GetCapacity())
	assert.Equal(t, DefaultServiceName, cfg.Telemetry.GetServiceName())
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("JENGA_CHEAT_CHANCES", "5")
	t.Setenv("JENGA_SEED", "7")
	t.Setenv("JENGA_LOG_LEVEL", "warn")
	t.Setenv("JENGA_EVENTBUS_CAPACITY", "oops")

	cfg := Default()
	assert.Equal(t, 5, cfg.Tower.GetCheatChances())
	assert.Equal(t, int64(7), cfg.Tower.GetSeed())
	assert.Equal(t, "warn", cfg.Logging.GetLevel())
	assert.Equal(t, DefaultEventBusCapacity, cfg.EventBus.GetCapacity(), "мусор в env игнорируется")
}

func TestEnvConfigPath(t *testing.T) {
	path := writeConfig(t, "tower:\n  cheat_chances: 9\n")
	t.Setenv("JENGA_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Tower.GetCheatChances())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "tower: [oops"))
	assert.Error(t, err)
}
