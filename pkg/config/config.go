// pkg/config/config.go
package config

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

// Manager handles loading and accessing configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager with an empty koanf instance.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
		currentConfig: DefaultConfig(),
	}
}

// DefaultConfig returns the baseline configuration used when no other
// source overrides it.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Dispatch: DispatchConfig{
			StrictHandlers: false,
		},
	}
}

// DefaultConfigAsMap flattens DefaultConfig for koanf's confmap provider.
// Only scalar keys are listed; list sections have no defaults.
func DefaultConfigAsMap() map[string]any {
	def := DefaultConfig()
	return map[string]any{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,

		"dispatch.strict_handlers": def.Dispatch.StrictHandlers,
	}
}

// Load reads defaults, the optional config file, environment variables and
// flags, in that order.
func (m *Manager) Load(flags *pflag.FlagSet, configFilePath string) error {
	return m.LoadWithSources(DefaultSources(configFilePath, flags))
}

// LoadWithSources loads sources in ascending priority order into a fresh
// koanf instance. Sources sharing a priority keep their relative order. The
// merged result is unmarshalled and validated before it replaces the current
// configuration; on error the previous configuration stays in place.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b ConfigSource) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})

	k := koanf.New(".")
	for _, src := range ordered {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
		log.Debug().Str("source", src.Name()).Int("priority", src.Priority()).Msg("config source loaded")
	}

	var newCfg Config
	if err := k.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}

	if err := Validate(newCfg); err != nil {
		return err
	}
	m.koanfInstance = k
	m.currentConfig = newCfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// Koanf exposes the koanf instance of the last successful load for
// read-only inspection.
func (m *Manager) Koanf() *koanf.Koanf {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance
}

// BindFlags defines the command-line flags that override configuration.
// Flag names map onto config keys in FlagSource.
func BindFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.Bool("strict", false, "Reject listeners that do not handle every registered event")
}
