// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

import (
	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/ordmap"
	"github.com/vulntor/evdispatch/pkg/priority"
)

// Handler is implemented by listener handles that consume events of type E
// directly. It is the first calling convention tried when firing E.
type Handler[E any] interface {
	OnEvent(ev *E) error
}

// Receiver is implemented by listener handles that route events themselves.
// handled reports whether the receiver has a handler for kind; unhandled
// kinds are skipped silently.
type Receiver interface {
	Receive(kind event.Kind, ev any) (handled bool, err error)
}

// Prioritized is implemented by listener descriptors that carry a priority
// declaration. A nil declaration means every event gets priority 0.
type Prioritized interface {
	Priorities() *priority.Declaration
}

// Named is implemented by listeners that have a human readable name.
type Named interface {
	Name() string
}

// HandlesReporter is implemented by listeners that can tell which event kinds
// they handle. Strict builds require it.
type HandlesReporter interface {
	Handles(kind event.Kind) bool
}

// Binding connects one event kind to a typed handler function.
type Binding struct {
	typ  event.Type
	call func(ev any) error
}

// On binds fn to the event type E.
func On[E any](fn func(ev *E) error) Binding {
	typ := event.TypeOf[E]()
	return Binding{
		typ: typ,
		call: func(ev any) error {
			e, ok := ev.(*E)
			if !ok {
				return &PayloadTypeError{Event: typ.Name, Payload: ev}
			}
			return fn(e)
		},
	}
}

// OnFunc binds a handler that cannot fail.
func OnFunc[E any](fn func(ev *E)) Binding {
	return On(func(ev *E) error {
		fn(ev)
		return nil
	})
}

// Kind returns the bound event kind.
func (b Binding) Kind() event.Kind { return b.typ.Kind }

// Listener is a named handle assembled from typed bindings and an optional
// priority declaration. It implements Receiver, Prioritized, Named and
// HandlesReporter.
type Listener struct {
	name       string
	priorities *priority.Declaration
	handlers   *ordmap.Map[event.Kind, Binding]
}

// NewListener creates a listener. priorities may be nil.
// Binding the same event kind twice fails with ErrDuplicateHandler.
func NewListener(name string, priorities *priority.Declaration, bindings ...Binding) (*Listener, error) {
	handlers := ordmap.New[event.Kind, Binding](len(bindings))
	for _, b := range bindings {
		if handlers.Contains(b.typ.Kind) {
			return nil, &DuplicateHandlerError{Listener: name, Event: b.typ.Name}
		}
		if err := handlers.Insert(b.typ.Kind, b); err != nil {
			return nil, err
		}
	}
	return &Listener{name: name, priorities: priorities, handlers: handlers}, nil
}

// MustListener is like NewListener but panics on error.
func MustListener(name string, priorities *priority.Declaration, bindings ...Binding) *Listener {
	l, err := NewListener(name, priorities, bindings...)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the listener name.
func (l *Listener) Name() string { return l.name }

// Priorities returns the listener's priority declaration, possibly nil.
func (l *Listener) Priorities() *priority.Declaration { return l.priorities }

// Handles reports whether a binding exists for kind.
func (l *Listener) Handles(kind event.Kind) bool { return l.handlers.Contains(kind) }

// Receive calls the binding registered for kind, if any.
func (l *Listener) Receive(kind event.Kind, ev any) (bool, error) {
	b, ok := l.handlers.OptionalAt(kind)
	if !ok {
		return false, nil
	}
	return true, b.call(ev)
}

// Spec describes a listener for Build when the handles themselves are not at
// hand, for instance when priorities come from configuration.
type Spec struct {
	Listener    string
	Declaration *priority.Declaration
	// Kinds lists the handled event kinds. Only strict builds consult it.
	Kinds []event.Kind
}

// Name implements Named.
func (s Spec) Name() string { return s.Listener }

// Priorities implements Prioritized.
func (s Spec) Priorities() *priority.Declaration { return s.Declaration }

// Handles implements HandlesReporter.
func (s Spec) Handles(kind event.Kind) bool {
	for _, k := range s.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
