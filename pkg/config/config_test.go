package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	BindServerFlags(flags)
	return flags
}

func TestNewManager_InitializesKoanf(t *testing.T) {
	manager := NewManager()
	assert.NotNil(t, manager, "Manager should not be nil")
	assert.NotNil(t, manager.koanfInstance, "Manager's koanfInstance should not be nil")
	assert.Equal(t, ".", manager.koanfInstance.Delim(), "Koanf delimiter should be '.'")
}

func TestNewManager_ManagersAreIndependent(t *testing.T) {
	manager1 := NewManager()
	manager2 := NewManager()
	assert.NotSame(t, manager1.koanfInstance, manager2.koanfInstance, "Each manager should own its koanf instance")
}

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Log.Level, "Default log level should be 'info'")
	assert.Equal(t, "text", cfg.Log.Format, "Default log format should be 'text'")
	assert.Equal(t, "", cfg.Log.File, "Default log file should be empty")
	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, int64(4), cfg.Generation.MaxConcurrentJobs)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestManager_Load_LoadsDefaultsWhenNoFlags(t *testing.T) {
	manager := NewManager()
	err := manager.Load(nil, "")
	assert.NoError(t, err, "Load should not return error when loading defaults")
	cfg := manager.Get()
	assert.Equal(t, "info", cfg.Log.Level, "Default log level should be 'info'")
	assert.Equal(t, "google/gemini-2.5-pro", cfg.Generation.Model)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
}

func TestManager_Load_OverridesWithFlags(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, flags.Set("log.level", "debug"))
	require.NoError(t, flags.Set("generation.model", "anthropic/claude-sonnet-4"))
	require.NoError(t, flags.Set("generation.max_attempts", "5"))

	err := manager.Load(flags, "")
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, "debug", cfg.Log.Level, "Flag value should override default")
	assert.Equal(t, "anthropic/claude-sonnet-4", cfg.Generation.Model)
	assert.Equal(t, 5, cfg.Generation.MaxAttempts)
	assert.Equal(t, "openrouter", cfg.LLM.Provider, "Unset values should keep their defaults")
}

func TestManager_Load_DebugFlagForcesDebugLevel(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, flags.Set("debug", "true"))

	err := manager.Load(flags, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", manager.Get().Log.Level, "--debug should force log level to debug")
}

func TestManager_Load_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("log:\n  level: warn\ngeneration:\n  model: local/test-model\n  resume: true\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	manager := NewManager()
	err := manager.Load(nil, path)
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "local/test-model", cfg.Generation.Model)
	assert.True(t, cfg.Generation.Resume)
}

func TestManager_Load_MissingConfigFileIsSkipped(t *testing.T) {
	manager := NewManager()
	err := manager.Load(nil, filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.NoError(t, err, "Missing config file should be skipped silently")
	assert.Equal(t, "info", manager.Get().Log.Level)
}

func TestManager_Load_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, flags.Set("log.level", "error"))

	err := manager.Load(flags, path)
	require.NoError(t, err)
	assert.Equal(t, "error", manager.Get().Log.Level, "Flags should have the highest precedence")
}

func TestDefaultConfigAsMap_CoversAllTrees(t *testing.T) {
	m := DefaultConfigAsMap()
	assert.Contains(t, m, "log.level")
	assert.Contains(t, m, "server.port")
	assert.Contains(t, m, "llm.base_url")
	assert.Contains(t, m, "generation.max_concurrent_jobs")
}
