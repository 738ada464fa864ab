// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

import (
	"github.com/vulntor/evdispatch/pkg/event"
)

// deliverFunc performs the capability call for one listener handle.
type deliverFunc func(handle any) (handled bool, err error)

// typedDeliver tries Handler[E] first and falls back to Receiver.
// Handles implementing neither are skipped.
func typedDeliver[E any](kind event.Kind, ev *E) deliverFunc {
	return func(handle any) (bool, error) {
		switch h := handle.(type) {
		case Handler[E]:
			return true, h.OnEvent(ev)
		case Receiver:
			return h.Receive(kind, ev)
		default:
			return false, nil
		}
	}
}

func untypedDeliver(kind event.Kind, ev any) deliverFunc {
	return func(handle any) (bool, error) {
		if h, ok := handle.(Receiver); ok {
			return h.Receive(kind, ev)
		}
		return false, nil
	}
}

// Fire delivers ev to every listener in ls registered for E, in table order.
// The first handler error aborts the firing and is returned as a *HandlerError.
func Fire[E any](t *Table, ls Collection, ev *E) error {
	typ := event.TypeOf[E]()
	if err := t.checkType(typ); err != nil {
		return err
	}
	return t.scan(ls, typ.Kind, typedDeliver(typ.Kind, ev))
}

// FireEmplace constructs a fresh event with construct and fires it.
// A nil construct fires the zero value of E.
func FireEmplace[E any](t *Table, ls Collection, construct func() E) error {
	typ := event.TypeOf[E]()
	if err := t.checkType(typ); err != nil {
		return err
	}
	var ev E
	if construct != nil {
		ev = construct()
	}
	return t.scan(ls, typ.Kind, typedDeliver(typ.Kind, &ev))
}

// FireKind delivers an untyped payload for kind. Only Receiver handles are
// reachable this way; it serves kinds that exist only by name.
func FireKind(t *Table, ls Collection, kind event.Kind, ev any) error {
	if err := t.checkKind(kind); err != nil {
		return err
	}
	return t.scan(ls, kind, untypedDeliver(kind, ev))
}

// Emitter fires one event type through one table. The registration check
// happens once, in NewEmitter.
type Emitter[E any] struct {
	table *Table
	kind  event.Kind
}

// NewEmitter returns an emitter for E, or an *UnregisteredEventError when
// the table was not built with E.
func NewEmitter[E any](t *Table) (*Emitter[E], error) {
	typ := event.TypeOf[E]()
	if err := t.checkType(typ); err != nil {
		return nil, err
	}
	return &Emitter[E]{table: t, kind: typ.Kind}, nil
}

// MustEmitter is like NewEmitter but panics on error.
func MustEmitter[E any](t *Table) *Emitter[E] {
	em, err := NewEmitter[E](t)
	if err != nil {
		panic(err)
	}
	return em
}

// Fire delivers ev to ls. See the package-level Fire.
func (em *Emitter[E]) Fire(ls Collection, ev *E) error {
	return em.table.scan(ls, em.kind, typedDeliver(em.kind, ev))
}

// FireEmplace constructs and delivers an event. See the package-level FireEmplace.
func (em *Emitter[E]) FireEmplace(ls Collection, construct func() E) error {
	var ev E
	if construct != nil {
		ev = construct()
	}
	return em.table.scan(ls, em.kind, typedDeliver(em.kind, &ev))
}

func (t *Table) checkKind(kind event.Kind) error {
	return t.checkType(event.Type{Kind: kind})
}

func (t *Table) checkType(typ event.Type) error {
	if t == nil {
		return ErrNilTable
	}
	if !t.EventExists(typ.Kind) {
		return &UnregisteredEventError{Kind: typ.Kind, Name: typ.Name}
	}
	return nil
}

// scan walks the whole table in order and delivers to every entry matching kind.
// A collection shorter than the table is rejected before any handler runs.
func (t *Table) scan(ls Collection, kind event.Kind, deliver deliverFunc) error {
	n := ls.Len()
	if n < t.Listeners() {
		return &OutOfRangeError{Listener: n, Len: n}
	}

	name := t.eventName(kind)
	delivered := 0

	for _, e := range t.entries {
		if e.Kind != kind {
			continue
		}

		handled, err := deliver(ls.At(e.Listener))
		if err != nil {
			t.metrics.observeFire(name, delivered, true)
			t.logger.Debug().
				Err(err).
				Str("event", name).
				Int("listener", e.Listener).
				Msg("handler failed, aborting dispatch")
			return &HandlerError{Listener: e.Listener, Name: t.ListenerName(e.Listener), Event: name, Err: err}
		}
		if handled {
			delivered++
		}
	}

	t.metrics.observeFire(name, delivered, false)
	t.logger.Trace().Str("event", name).Int("delivered", delivered).Msg("event fired")
	return nil
}
