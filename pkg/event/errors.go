package event

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEvents is returned when a Set is registered without any kinds.
	ErrNoEvents = errors.New("registered events cannot be empty")

	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("duplicate event kind")
)

// DuplicateKindError wraps ErrDuplicateKind with the colliding names.
type DuplicateKindError struct {
	Kind   Kind
	First  string
	Second string
}

// Error implements the error interface.
func (e *DuplicateKindError) Error() string {
	if e.First == e.Second {
		return fmt.Sprintf("duplicate event kind %q (%#x)", e.First, uint64(e.Kind))
	}
	return fmt.Sprintf("duplicate event kind %#x: %q collides with %q", uint64(e.Kind), e.Second, e.First)
}

// Unwrap returns the underlying error.
func (e *DuplicateKindError) Unwrap() error {
	return ErrDuplicateKind
}
