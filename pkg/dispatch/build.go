// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/priority"
)

type buildOptions struct {
	strict  bool
	logger  *zerolog.Logger
	metrics *Metrics
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithStrictHandlers rejects, at build time, any listener that does not
// handle every registered event kind. Listeners must implement
// HandlesReporter. Without this option unhandled kinds are skipped silently
// when firing.
func WithStrictHandlers() BuildOption {
	return func(o *buildOptions) { o.strict = true }
}

// WithLogger sets the logger used by the table. Tables are silent without it.
func WithLogger(logger zerolog.Logger) BuildOption {
	return func(o *buildOptions) { o.logger = &logger }
}

// WithMetrics records build and fire metrics into m.
func WithMetrics(m *Metrics) BuildOption {
	return func(o *buildOptions) { o.metrics = m }
}

// Build creates the dispatch table for events and listeners. The position of
// each listener in the slice is its listener index.
//
// Every listener contributes exactly one entry per registered kind; the
// flattened entries are then stably sorted by priority, highest first.
func Build(events event.Set, listeners []Prioritized, opts ...BuildOption) (*Table, error) {
	if events.Empty() {
		return nil, fmt.Errorf("build dispatch table: %w", event.ErrNoEvents)
	}

	o := buildOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := zerolog.Nop()
	if o.logger != nil {
		logger = *o.logger
	}
	id := uuid.New()
	logger = logger.With().Str("component", "dispatch").Str("table", id.String()).Logger()

	kinds := events.Kinds()
	entries := make([]Entry, 0, len(listeners)*len(kinds))
	names := make([]string, len(listeners))

	for i, l := range listeners {
		names[i] = listenerName(i, l)

		if s, ok := l.(slotDescriptor); ok && needsPointer(s.handle) {
			if o.strict {
				return nil, fmt.Errorf("build dispatch table: %w",
					&ValueHandleError{Listener: i, Type: reflect.TypeOf(s.handle).String()})
			}
			logger.Warn().
				Str("listener", names[i]).
				Str("type", reflect.TypeOf(s.handle).String()).
				Msg("handler methods have pointer receivers; value handle will never be called")
		}

		if o.strict {
			if err := checkHandlers(i, names[i], l, events); err != nil {
				return nil, fmt.Errorf("build dispatch table: %w", err)
			}
		}

		var decl *priority.Declaration
		if l != nil {
			decl = l.Priorities()
		}
		for _, k := range priority.Undeclared(decl, events) {
			logger.Warn().
				Str("listener", names[i]).
				Uint64("kind", uint64(k)).
				Msg("priority declared for unregistered event kind, ignoring")
		}

		normalized, err := priority.Normalize(decl, events)
		if err != nil {
			return nil, fmt.Errorf("build dispatch table: listener %d (%s): %w", i, names[i], err)
		}
		for k, p := range normalized.All() {
			entries = append(entries, Entry{Listener: i, Kind: k, Priority: p})
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	t := &Table{
		id:      id,
		entries: entries,
		events:  events,
		names:   names,
		logger:  logger,
		metrics: o.metrics,
	}

	t.metrics.observeBuild(t)
	logger.Debug().
		Int("listeners", len(listeners)).
		Int("events", len(kinds)).
		Int("entries", len(entries)).
		Bool("strict", o.strict).
		Msg("dispatch table built")

	return t, nil
}

// BuildFrom builds a table for the handles in ls. Handles implementing
// Prioritized contribute their declarations; others get priority 0 for every
// kind.
func BuildFrom(events event.Set, ls Collection, opts ...BuildOption) (*Table, error) {
	descriptors := make([]Prioritized, ls.Len())
	for i := range descriptors {
		descriptors[i] = slotDescriptor{handle: ls.At(i)}
	}
	return Build(events, descriptors, opts...)
}

// slotDescriptor exposes a handle's optional interfaces to Build.
type slotDescriptor struct {
	handle any
}

func (s slotDescriptor) Priorities() *priority.Declaration {
	if p, ok := s.handle.(Prioritized); ok {
		return p.Priorities()
	}
	return nil
}

func listenerName(i int, l Prioritized) string {
	var v any = l
	if s, ok := l.(slotDescriptor); ok {
		v = s.handle
	}
	if n, ok := v.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("listener#%d", i)
}

func checkHandlers(i int, name string, l Prioritized, events event.Set) error {
	var v any = l
	if s, ok := l.(slotDescriptor); ok {
		v = s.handle
	}
	reporter, ok := v.(HandlesReporter)
	for _, typ := range events.Types() {
		if !ok || !reporter.Handles(typ.Kind) {
			return &MissingHandlerError{Listener: i, Name: name, Event: typ.Name}
		}
	}
	return nil
}

var handlerMethods = []string{"OnEvent", "Receive"}

// needsPointer reports whether handle is a non-pointer value whose handler
// methods are only defined on its pointer type.
func needsPointer(handle any) bool {
	if handle == nil {
		return false
	}
	if _, ok := handle.(Receiver); ok {
		return false
	}
	rt := reflect.TypeOf(handle)
	if rt.Kind() == reflect.Pointer || rt.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(rt)
	for _, m := range handlerMethods {
		_, onValue := rt.MethodByName(m)
		_, onPointer := pt.MethodByName(m)
		if onPointer && !onValue {
			return true
		}
	}
	return false
}
