package config

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/spf13/cast"

	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/priority"
)

// Resolve turns the manifest into a registered event set and one listener
// Spec per configured listener, in configuration order. Event kinds are
// named kinds (event.Named).
func (c DispatchConfig) Resolve() (event.Set, []dispatch.Spec, error) {
	types := make([]event.Type, len(c.Events))
	for i, name := range c.Events {
		types[i] = event.Named(name)
	}
	events, err := event.Register(types...)
	if err != nil {
		return event.Set{}, nil, fmt.Errorf("resolve dispatch events: %w", err)
	}

	specs := make([]dispatch.Spec, len(c.Listeners))
	for i, lc := range c.Listeners {
		spec, err := lc.resolve(events)
		if err != nil {
			return event.Set{}, nil, err
		}
		specs[i] = spec
	}
	return events, specs, nil
}

func (lc ListenerConfig) resolve(events event.Set) (dispatch.Spec, error) {
	decl := priority.New(len(lc.Priorities))
	// walk registered events so the declaration keeps registration order
	for _, typ := range events.Types() {
		raw, ok := lc.Priorities[typ.Name]
		if !ok {
			continue
		}
		p, err := toPriority(raw)
		if err != nil {
			return dispatch.Spec{}, &ValidationError{
				Field:  fmt.Sprintf("Dispatch.Listeners[%s].Priorities[%s]", lc.Name, typ.Name),
				Reason: err.Error(),
			}
		}
		if err := decl.Set(typ.Kind, p); err != nil {
			return dispatch.Spec{}, err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(lc.Priorities)) {
		if _, ok := events.Lookup(name); !ok {
			return dispatch.Spec{}, &ValidationError{
				Field:  fmt.Sprintf("Dispatch.Listeners[%s].Priorities[%s]", lc.Name, name),
				Reason: "unknown event",
			}
		}
	}

	kinds := events.Kinds()
	if len(lc.Handles) > 0 {
		kinds = kinds[:0:0]
		for _, name := range lc.Handles {
			typ, ok := events.Lookup(name)
			if !ok {
				return dispatch.Spec{}, &ValidationError{
					Field:  fmt.Sprintf("Dispatch.Listeners[%s].Handles", lc.Name),
					Reason: "unknown event " + name,
				}
			}
			kinds = append(kinds, typ.Kind)
		}
	}

	return dispatch.Spec{Listener: lc.Name, Declaration: decl, Kinds: kinds}, nil
}

func toPriority(v any) (uint8, error) {
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("priority must be an integer: %w", err)
	}
	if n < 0 || n > math.MaxUint8 {
		return 0, fmt.Errorf("priority %d out of range 0..255", n)
	}
	return uint8(n), nil
}
