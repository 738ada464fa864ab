// Package ordmap provides a small associative container with a fixed capacity
// that preserves insertion order.
//
// Lookups are linear scans. The container is meant for tens of entries (event
// kinds, per-listener priorities), not for general purpose keyed storage.
package ordmap

import "iter"

// Pair is a single key/value slot.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered map whose capacity is fixed at construction.
// Keys are not de-duplicated: Insert always appends and lookups return the
// first matching slot.
type Map[K comparable, V any] struct {
	data     []Pair[K, V]
	capacity int
}

// New creates an empty map that can hold exactly capacity entries.
// A negative capacity is treated as zero.
func New[K comparable, V any](capacity int) *Map[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Map[K, V]{
		data:     make([]Pair[K, V], 0, capacity),
		capacity: capacity,
	}
}

// Insert appends key/value into the next free slot.
// When the map is already full the insertion is rejected with a
// *CapacityError and the map is left unchanged.
func (m *Map[K, V]) Insert(key K, value V) error {
	if len(m.data) >= m.capacity {
		return &CapacityError{Capacity: m.capacity}
	}
	m.data = append(m.data, Pair[K, V]{Key: key, Value: value})
	return nil
}

// At returns the value stored for key, or a *KeyNotFoundError.
func (m *Map[K, V]) At(key K) (V, error) {
	if v, ok := m.OptionalAt(key); ok {
		return v, nil
	}
	var zero V
	return zero, &KeyNotFoundError{Key: key}
}

// OptionalAt returns the value stored for key and whether it was present.
func (m *Map[K, V]) OptionalAt(key K) (V, bool) {
	for _, p := range m.data {
		if p.Key == key {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key has been inserted.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.OptionalAt(key)
	return ok
}

// Clear resets the map to empty. Capacity is unchanged.
func (m *Map[K, V]) Clear() {
	clear(m.data)
	m.data = m.data[:0]
}

// Len returns the number of occupied slots.
func (m *Map[K, V]) Len() int { return len(m.data) }

// Cap returns the fixed capacity.
func (m *Map[K, V]) Cap() int { return m.capacity }

// Full reports whether every slot is occupied.
func (m *Map[K, V]) Full() bool { return len(m.data) >= m.capacity }

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.data))
	for i, p := range m.data {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns a copy of the occupied slots in insertion order.
func (m *Map[K, V]) Pairs() []Pair[K, V] {
	out := make([]Pair[K, V], len(m.data))
	copy(out, m.data)
	return out
}

// All iterates the occupied slots in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range m.data {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}
