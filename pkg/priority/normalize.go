package priority

import (
	"fmt"
	"iter"

	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/ordmap"
)

// Normalized is a dense priority map holding exactly one entry per
// registered event kind, in registration order.
type Normalized struct {
	m *ordmap.Map[event.Kind, uint8]
}

// Normalize expands d against events. Kinds d does not mention default to 0;
// kinds d mentions that are not registered are ignored (see Undeclared).
func Normalize(d *Declaration, events event.Set) (*Normalized, error) {
	kinds := events.Kinds()
	m := ordmap.New[event.Kind, uint8](len(kinds))

	for _, k := range kinds {
		var p uint8
		if d.Len() > 0 {
			p, _ = d.Lookup(k)
		}
		if err := m.Insert(k, p); err != nil {
			return nil, fmt.Errorf("normalize priorities: %w", err)
		}
	}
	return &Normalized{m: m}, nil
}

// At returns the priority for kind. A missing kind means the caller queried
// a kind outside the set this map was normalised against.
func (n *Normalized) At(kind event.Kind) (uint8, error) {
	return n.m.At(kind)
}

// Len returns the number of entries, always the registered set's size.
func (n *Normalized) Len() int { return n.m.Len() }

// All iterates the entries in registration order.
func (n *Normalized) All() iter.Seq2[event.Kind, uint8] { return n.m.All() }

// Undeclared returns the kinds d declares that events does not register.
func Undeclared(d *Declaration, events event.Set) []event.Kind {
	var out []event.Kind
	for k := range d.All() {
		if !events.Exists(k) {
			out = append(out, k)
		}
	}
	return out
}
