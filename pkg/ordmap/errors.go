package ordmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by At when the key has never been inserted.
	ErrNotFound = errors.New("key not found")

	// ErrCapacityExceeded is returned by Insert when every slot is occupied.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// KeyNotFoundError wraps ErrNotFound with the missing key.
type KeyNotFoundError struct {
	Key any
}

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %v", e.Key)
}

// Unwrap returns the underlying error.
func (e *KeyNotFoundError) Unwrap() error {
	return ErrNotFound
}

// CapacityError wraps ErrCapacityExceeded with the map's capacity.
type CapacityError struct {
	Capacity int
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: map holds at most %d entries", e.Capacity)
}

// Unwrap returns the underlying error.
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
