// pkg/config/types.go
package config

// Config is the root configuration structure for evdispatch.
type Config struct {
	Log      LogConfig      `description:"Logging configuration" koanf:"log"`
	Dispatch DispatchConfig `description:"Dispatch table manifest" koanf:"dispatch"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level: trace|debug|info|warn|error" koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `description:"Log format: json | text" koanf:"format" validate:"omitempty,oneof=json text"`
}

// DispatchConfig describes the event kinds and listeners a dispatch table is
// built from. Listener order is listener index order.
type DispatchConfig struct {
	Requires       string           `description:"evdispatch version constraint, e.g. '>= 1.2'" koanf:"requires" validate:"omitempty,semver_constraint"`
	StrictHandlers bool             `description:"Reject listeners that do not handle every event" koanf:"strict_handlers"`
	Events         []string         `description:"Registered event kinds, in order" koanf:"events" validate:"omitempty,unique,dive,required,excludes=."`
	Listeners      []ListenerConfig `description:"Listeners, in registration order" koanf:"listeners" validate:"omitempty,unique=Name,dive"`
}

// ListenerConfig is one listener's priority declaration.
type ListenerConfig struct {
	Name string `description:"Listener name" koanf:"name" validate:"required"`
	// Priorities maps event names to 0..255. Values are coerced with cast so
	// YAML ints, strings and env overrides all work.
	Priorities map[string]any `description:"Per-event priorities" koanf:"priorities"`
	// Handles lists the events the listener handles. Empty means all events.
	Handles []string `description:"Handled events (strict mode)" koanf:"handles" validate:"omitempty,dive,required"`
}
