// Package priority holds per-listener priority declarations and expands them
// into dense maps covering every registered event kind.
package priority

import (
	"iter"

	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/ordmap"
)

// Entry is one (kind, priority) declaration. Higher priorities are
// dispatched first.
type Entry struct {
	Kind     event.Kind
	Priority uint8
}

// For declares priority p for the event type E.
func For[E any](p uint8) Entry {
	return Entry{Kind: event.KindOf[E](), Priority: p}
}

// Of declares priority p for kind.
func Of(kind event.Kind, p uint8) Entry {
	return Entry{Kind: kind, Priority: p}
}

// Declaration is a listener's, possibly partial, priority table.
// A nil *Declaration is valid and declares nothing.
type Declaration struct {
	m *ordmap.Map[event.Kind, uint8]
}

// New returns an empty declaration with room for capacity entries.
func New(capacity int) *Declaration {
	return &Declaration{m: ordmap.New[event.Kind, uint8](capacity)}
}

// Declare builds a declaration sized exactly to entries.
func Declare(entries ...Entry) (*Declaration, error) {
	d := New(len(entries))
	for _, e := range entries {
		if err := d.Set(e.Kind, e.Priority); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDeclare is like Declare but panics on error.
func MustDeclare(entries ...Entry) *Declaration {
	d, err := Declare(entries...)
	if err != nil {
		panic(err)
	}
	return d
}

// Set records priority p for kind. Declaring the same kind twice fails with
// ErrAlreadyDeclared; exceeding the capacity fails with ordmap.ErrCapacityExceeded.
// A nil or zero Declaration has no capacity and fails with ErrUninitialized.
func (d *Declaration) Set(kind event.Kind, p uint8) error {
	if d.empty() {
		return ErrUninitialized
	}
	if d.m.Contains(kind) {
		return &AlreadyDeclaredError{Kind: kind}
	}
	return d.m.Insert(kind, p)
}

// Lookup returns the declared priority for kind.
func (d *Declaration) Lookup(kind event.Kind) (uint8, bool) {
	if d.empty() {
		return 0, false
	}
	return d.m.OptionalAt(kind)
}

// Len returns the number of declared kinds.
func (d *Declaration) Len() int {
	if d.empty() {
		return 0
	}
	return d.m.Len()
}

// All iterates the declaration in insertion order.
func (d *Declaration) All() iter.Seq2[event.Kind, uint8] {
	if d.empty() {
		return func(func(event.Kind, uint8) bool) {}
	}
	return d.m.All()
}

func (d *Declaration) empty() bool { return d == nil || d.m == nil }
