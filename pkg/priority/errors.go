package priority

import (
	"errors"
	"fmt"

	"github.com/vulntor/evdispatch/pkg/event"
)

// ErrAlreadyDeclared is returned when a declaration names the same kind twice.
var ErrAlreadyDeclared = errors.New("priority already declared")

// ErrUninitialized is returned when setting a priority on a declaration not
// created with New or Declare.
var ErrUninitialized = errors.New("priority declaration not initialized")

// AlreadyDeclaredError wraps ErrAlreadyDeclared with the repeated kind.
type AlreadyDeclaredError struct {
	Kind event.Kind
}

// Error implements the error interface.
func (e *AlreadyDeclaredError) Error() string {
	return fmt.Sprintf("priority already declared for event kind %#x", uint64(e.Kind))
}

// Unwrap returns the underlying error.
func (e *AlreadyDeclaredError) Unwrap() error {
	return ErrAlreadyDeclared
}
