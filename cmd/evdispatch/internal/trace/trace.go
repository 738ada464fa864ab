// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package trace provides stand-in listeners that record the deliveries a
// dispatch table makes, for simulating manifests from the command line.
package trace

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/event"
)

// ErrSimulatedFailure is returned by recorders marked as failing.
var ErrSimulatedFailure = errors.New("simulated handler failure")

// Payload is the event value fired by the CLI.
type Payload struct {
	Event string `json:"event" yaml:"event"`
	Data  string `json:"data,omitempty" yaml:"data,omitempty"`
}

// Delivery records one handler call.
type Delivery struct {
	Step     int    `json:"step" yaml:"step"`
	Listener int    `json:"listener" yaml:"listener"`
	Name     string `json:"name" yaml:"name"`
	Event    string `json:"event" yaml:"event"`
	Priority uint8  `json:"priority" yaml:"priority"`
	Failed   bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// Trace collects deliveries in call order.
type Trace struct {
	events     event.Set
	deliveries []Delivery
}

// Deliveries returns a copy of the recorded deliveries.
func (t *Trace) Deliveries() []Delivery { return slices.Clone(t.deliveries) }

// Len returns the number of recorded deliveries.
func (t *Trace) Len() int { return len(t.deliveries) }

func (t *Trace) record(d Delivery) {
	d.Step = len(t.deliveries) + 1
	t.deliveries = append(t.deliveries, d)
}

// Recorder is a dispatch.Receiver standing in for a configured listener.
// It handles exactly the kinds its Spec handles.
type Recorder struct {
	index int
	spec  dispatch.Spec
	fail  bool
	trace *Trace
}

// Name implements dispatch.Named.
func (r *Recorder) Name() string { return r.spec.Name() }

// Receive implements dispatch.Receiver.
func (r *Recorder) Receive(kind event.Kind, ev any) (bool, error) {
	if !r.spec.Handles(kind) {
		return false, nil
	}

	name, _ := r.trace.events.Name(kind)
	if p, ok := ev.(*Payload); ok && p.Event != "" {
		name = p.Event
	}
	prio, _ := r.spec.Priorities().Lookup(kind)

	r.trace.record(Delivery{
		Listener: r.index,
		Name:     r.spec.Name(),
		Event:    name,
		Priority: prio,
		Failed:   r.fail,
	})
	if r.fail {
		return true, fmt.Errorf("%s: %w", r.spec.Name(), ErrSimulatedFailure)
	}
	return true, nil
}

// Listeners returns one Recorder per spec, in spec order, sharing a Trace.
// Recorders whose listener name is in failing return ErrSimulatedFailure.
func Listeners(events event.Set, specs []dispatch.Spec, failing ...string) (dispatch.Slice, *Trace) {
	tr := &Trace{events: events}
	ls := make(dispatch.Slice, len(specs))
	for i, spec := range specs {
		ls[i] = &Recorder{
			index: i,
			spec:  spec,
			fail:  slices.Contains(failing, spec.Name()),
			trace: tr,
		}
	}
	return ls, tr
}
