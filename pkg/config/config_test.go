package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_InitializesKoanf(t *testing.T) {
	manager := NewManager()
	require.NotNil(t, manager)
	require.NotNil(t, manager.Koanf(), "Manager's koanf instance should not be nil")
	assert.Equal(t, ".", manager.Koanf().Delim(), "Koanf delimiter should be '.'")
}

func TestNewManager_ManagersDoNotShareState(t *testing.T) {
	m1 := NewManager()
	m2 := NewManager()
	assert.NotSame(t, m1.Koanf(), m2.Koanf())
}

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Log.Level, "Default log level should be 'info'")
	assert.Equal(t, "text", cfg.Log.Format, "Default log format should be 'text'")
	assert.False(t, cfg.Dispatch.StrictHandlers, "Strict handler checks should be off by default")
	assert.Empty(t, cfg.Dispatch.Events)
	assert.Empty(t, cfg.Dispatch.Listeners)
}

func TestManager_Load_LoadsDefaultsWhenNoFlags(t *testing.T) {
	manager := NewManager()
	err := manager.Load(nil, "")
	require.NoError(t, err, "Load should not return error when loading defaults")

	cfg := manager.Get()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Dispatch.StrictHandlers)
}

func TestManager_Load_OverridesWithFlags(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, flags.Set("log-level", "error"))
	require.NoError(t, flags.Set("log-format", "json"))
	require.NoError(t, flags.Set("strict", "true"))

	err := manager.Load(flags, "")
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, "error", cfg.Log.Level, "Flag should override log level")
	assert.Equal(t, "json", cfg.Log.Format, "Flag should override log format")
	assert.True(t, cfg.Dispatch.StrictHandlers, "Flag should enable strict handlers")
}

func TestManager_Load_UnchangedFlagsKeepDefaults(t *testing.T) {
	manager := NewManager()
	err := manager.Load(newTestFlagSet(), "")
	require.NoError(t, err)

	cfg := manager.Get()
	assert.Equal(t, "info", cfg.Log.Level, "Unset flag must not clobber the default")
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestManager_Load_DebugFlagSetsLogLevelToDebug(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, flags.Set("debug", "true"))

	err := manager.Load(flags, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", manager.Get().Log.Level, "Debug flag should set log level to debug")
}

func TestManager_Load_Manifest(t *testing.T) {
	path := writeManifest(t, `
log:
  level: warn
dispatch:
  events: [int, float, string]
  listeners:
    - name: listener1
      priorities: {int: 1, float: 3, string: "5"}
    - name: listener2
      handles: [int]
`)

	manager := NewManager()
	require.NoError(t, manager.Load(nil, path))

	cfg := manager.Get()
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "Defaults fill keys missing from the manifest")
	assert.Equal(t, []string{"int", "float", "string"}, cfg.Dispatch.Events)
	require.Len(t, cfg.Dispatch.Listeners, 2)
	assert.Equal(t, "listener1", cfg.Dispatch.Listeners[0].Name)
	assert.Len(t, cfg.Dispatch.Listeners[0].Priorities, 3)
	assert.Equal(t, []string{"int"}, cfg.Dispatch.Listeners[1].Handles)
}

func TestManager_Load_EnvOverridesFile(t *testing.T) {
	path := writeManifest(t, "log:\n  level: warn\n")
	t.Setenv("EVDISPATCH_LOG__LEVEL", "trace")

	manager := NewManager()
	require.NoError(t, manager.Load(nil, path))
	assert.Equal(t, "trace", manager.Get().Log.Level)
}

func TestManager_Load_MissingFileFails(t *testing.T) {
	manager := NewManager()
	err := manager.Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file:")
}

func TestManager_Load_InvalidConfigKeepsPrevious(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Load(nil, ""))

	path := writeManifest(t, "log:\n  format: xml\n")
	err := manager.Load(nil, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "text", manager.Get().Log.Format, "Rejected config must not replace the current one")
}

func TestBindFlags_AddsFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)

	for _, name := range []string{"debug", "log-level", "log-format", "strict"} {
		assert.NotNil(t, flags.Lookup(name), "BindFlags should add %q", name)
	}

	debugFlag := flags.Lookup("debug")
	assert.Equal(t, "Enable debug logging", debugFlag.Usage)
	assert.Equal(t, "false", debugFlag.DefValue, "Debug flag should default to false")
}

func TestBindFlags_EveryConfigFlagHasKey(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)

	for name := range flagKeys {
		assert.NotNil(t, flags.Lookup(name), "flag key %q has no bound flag", name)
	}
}

func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	return flags
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evdispatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
