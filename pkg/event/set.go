package event

import "github.com/vulntor/evdispatch/pkg/ordmap"

// Set is the ordered, non-empty collection of registered event kinds.
// A Set is immutable once built; copies share the same backing storage.
type Set struct {
	types *ordmap.Map[Kind, string]
}

// Register builds a Set from types in the given order.
// It fails with ErrNoEvents when called without types and with
// ErrDuplicateKind when two entries resolve to the same Kind.
func Register(types ...Type) (Set, error) {
	if len(types) == 0 {
		return Set{}, ErrNoEvents
	}

	m := ordmap.New[Kind, string](len(types))
	for _, t := range types {
		if prev, ok := m.OptionalAt(t.Kind); ok {
			return Set{}, &DuplicateKindError{Kind: t.Kind, First: prev, Second: t.Name}
		}
		if err := m.Insert(t.Kind, t.Name); err != nil {
			return Set{}, err
		}
	}
	return Set{types: m}, nil
}

// MustRegister is like Register but panics on error.
// Intended for package-level variables.
func MustRegister(types ...Type) Set {
	s, err := Register(types...)
	if err != nil {
		panic(err)
	}
	return s
}

// Size returns the number of registered kinds.
func (s Set) Size() int {
	if s.types == nil {
		return 0
	}
	return s.types.Len()
}

// Empty reports whether the set was never registered.
func (s Set) Empty() bool { return s.Size() == 0 }

// Exists reports whether kind is registered.
func (s Set) Exists(kind Kind) bool {
	if s.types == nil {
		return false
	}
	return s.types.Contains(kind)
}

// Kinds returns the registered kinds in registration order.
func (s Set) Kinds() []Kind {
	if s.types == nil {
		return nil
	}
	return s.types.Keys()
}

// Types returns the registered kinds with their names, in registration order.
func (s Set) Types() []Type {
	if s.types == nil {
		return nil
	}
	out := make([]Type, 0, s.types.Len())
	for k, name := range s.types.All() {
		out = append(out, Type{Kind: k, Name: name})
	}
	return out
}

// Name returns the name kind was registered under.
func (s Set) Name(kind Kind) (string, bool) {
	if s.types == nil {
		return "", false
	}
	return s.types.OptionalAt(kind)
}

// Lookup finds a registered kind by name.
func (s Set) Lookup(name string) (Type, bool) {
	if s.types == nil {
		return Type{}, false
	}
	for k, n := range s.types.All() {
		if n == name {
			return Type{Kind: k, Name: n}, true
		}
	}
	return Type{}, false
}

// Equal reports whether both sets hold the same kinds in the same order.
func (s Set) Equal(other Set) bool {
	a, b := s.Kinds(), other.Kinds()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
