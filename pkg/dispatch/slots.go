// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

// Collection is an ordered, indexable set of listener handles. The index of a
// handle is its listener index in the dispatch table, so a collection passed
// to Fire must be positionally aligned with the listeners the table was
// built from.
type Collection interface {
	Len() int
	At(i int) any
}

// Slots is a fixed-capacity, ordered collection of listener handles.
// Handles may be values or pointers; whatever they implement (Handler[E],
// Receiver) is used at fire time.
type Slots struct {
	handles  []any
	capacity int
}

// NewSlots creates an empty collection that can hold capacity handles.
func NewSlots(capacity int) *Slots {
	if capacity < 0 {
		capacity = 0
	}
	return &Slots{handles: make([]any, 0, capacity), capacity: capacity}
}

// Add appends handles and returns the index of the first one.
// Adding past capacity fails with ErrSlotsFull and adds nothing.
func (s *Slots) Add(handles ...any) (int, error) {
	if len(s.handles)+len(handles) > s.capacity {
		return -1, ErrSlotsFull
	}
	first := len(s.handles)
	s.handles = append(s.handles, handles...)
	return first, nil
}

// MustAdd is like Add but panics on error.
func (s *Slots) MustAdd(handles ...any) int {
	i, err := s.Add(handles...)
	if err != nil {
		panic(err)
	}
	return i
}

// Len returns the number of occupied slots.
func (s *Slots) Len() int { return len(s.handles) }

// Cap returns the fixed capacity.
func (s *Slots) Cap() int { return s.capacity }

// At returns the handle at index i. It panics if i is out of range.
func (s *Slots) At(i int) any { return s.handles[i] }

// ForEach calls fn for every handle in index order.
func (s *Slots) ForEach(fn func(i int, handle any)) {
	for i, h := range s.handles {
		fn(i, h)
	}
}

// Clear removes every handle. Capacity is unchanged.
func (s *Slots) Clear() {
	clear(s.handles)
	s.handles = s.handles[:0]
}

// Slice adapts a plain slice of handles to Collection.
type Slice []any

// Len implements Collection.
func (s Slice) Len() int { return len(s) }

// At implements Collection.
func (s Slice) At(i int) any { return s[i] }
