package dispatch_test

import (
	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/priority"
)

// Events carry pointers to caller-owned values so handlers can write results
// back, the same way in/out payload fields are used in production.
type intEvent struct{ Value *int }
type floatEvent struct{ Value *float32 }
type stringEvent struct{ Value *string }

// unregisteredEvent is never part of testEvents.
type unregisteredEvent struct{}

var testEvents = event.MustRegister(
	event.TypeOf[intEvent](),
	event.TypeOf[floatEvent](),
	event.TypeOf[stringEvent](),
)

// writer overwrites every event's value with its own.
type writer struct {
	name string
	i    int
	f    float32
	log  *[]string
}

func (w *writer) onInt(ev *intEvent) error {
	*ev.Value = w.i
	w.record()
	return nil
}

func (w *writer) onFloat(ev *floatEvent) error {
	*ev.Value = w.f
	w.record()
	return nil
}

func (w *writer) onString(ev *stringEvent) error {
	*ev.Value = w.name
	w.record()
	return nil
}

func (w *writer) record() {
	if w.log != nil {
		*w.log = append(*w.log, w.name)
	}
}

func (w *writer) listener(decl *priority.Declaration) *dispatch.Listener {
	return dispatch.MustListener(w.name, decl,
		dispatch.On(w.onInt),
		dispatch.On(w.onFloat),
		dispatch.On(w.onString),
	)
}

// newWriters returns the three reference listeners: listener1 writes
// (1, 0.3), listener2 (2, 0.2), listener3 (3, 0.1).
func newWriters(log *[]string) []*writer {
	return []*writer{
		{name: "listener1", i: 1, f: 0.3, log: log},
		{name: "listener2", i: 2, f: 0.2, log: log},
		{name: "listener3", i: 3, f: 0.1, log: log},
	}
}

// decl builds an (int, float, string) priority triple.
func decl(i, f, s uint8) *priority.Declaration {
	return priority.MustDeclare(
		priority.For[intEvent](i),
		priority.For[floatEvent](f),
		priority.For[stringEvent](s),
	)
}

func slotsOf(handles ...any) *dispatch.Slots {
	s := dispatch.NewSlots(len(handles))
	s.MustAdd(handles...)
	return s
}
