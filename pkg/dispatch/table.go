// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

import (
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vulntor/evdispatch/pkg/event"
)

// Entry is one (listener, event kind, priority) row of a dispatch table.
type Entry struct {
	Listener int        `json:"listener" yaml:"listener"`
	Kind     event.Kind `json:"kind" yaml:"kind"`
	Priority uint8      `json:"priority" yaml:"priority"`
}

// Table is the immutable, priority-sorted dispatch table.
// Build is the only way to obtain one.
type Table struct {
	id      uuid.UUID
	entries []Entry
	events  event.Set
	names   []string

	logger  zerolog.Logger
	metrics *Metrics
}

// ID identifies this table in logs and metrics.
func (t *Table) ID() uuid.UUID { return t.id }

// Entries returns a copy of the sorted entries.
func (t *Table) Entries() []Entry { return slices.Clone(t.entries) }

// Len returns listeners × registered events.
func (t *Table) Len() int { return len(t.entries) }

// Listeners returns the number of listeners the table was built for.
func (t *Table) Listeners() int { return len(t.names) }

// ListenerName returns the name of listener i, or "" when out of range.
func (t *Table) ListenerName(i int) string {
	if i < 0 || i >= len(t.names) {
		return ""
	}
	return t.names[i]
}

// Events returns the registered event set.
func (t *Table) Events() event.Set { return t.events }

// EventExists reports whether kind may be fired through this table.
func (t *Table) EventExists(kind event.Kind) bool { return t.events.Exists(kind) }

// Order returns the listener indices kind is delivered to, in dispatch order.
func (t *Table) Order(kind event.Kind) []int {
	var order []int
	for _, e := range t.entries {
		if e.Kind == kind {
			order = append(order, e.Listener)
		}
	}
	return order
}

// Equal reports whether both tables hold the same entries in the same order
// for the same registered events. IDs are ignored.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.events.Equal(other.events) && slices.Equal(t.entries, other.entries)
}

func (t *Table) eventName(kind event.Kind) string {
	if name, ok := t.events.Name(kind); ok {
		return name
	}
	return ""
}
