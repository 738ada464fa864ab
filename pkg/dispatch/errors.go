// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch

import (
	"errors"
	"fmt"

	"github.com/vulntor/evdispatch/pkg/event"
)

const (
	errorCodeUnregisteredEvent = "DISPATCH_UNREGISTERED_EVENT"
	errorCodeHandlerFailed     = "DISPATCH_HANDLER_FAILED"
	errorCodeMissingHandler    = "DISPATCH_MISSING_HANDLER"
	errorCodeOutOfRange        = "DISPATCH_LISTENER_OUT_OF_RANGE"
	errorCodePayloadType       = "DISPATCH_PAYLOAD_TYPE"
	errorCodeInvalidBuild      = "DISPATCH_INVALID_BUILD"
	errorCodeUnknown           = "DISPATCH_FAILED"
)

var (
	// ErrUnregisteredEvent is returned when firing a kind the table was not built with.
	ErrUnregisteredEvent = errors.New("event kind not registered")

	// ErrHandlerFailed wraps errors returned by listener handlers.
	ErrHandlerFailed = errors.New("handler failed")

	// ErrMissingHandler is returned by strict builds when a listener does not
	// handle every registered event kind.
	ErrMissingHandler = errors.New("listener does not handle event")

	// ErrListenerOutOfRange is returned when the table references a listener
	// index the fired collection does not have.
	ErrListenerOutOfRange = errors.New("listener index out of range")

	// ErrPayloadType is returned when an event payload does not match the
	// type its kind was bound to.
	ErrPayloadType = errors.New("event payload type mismatch")

	// ErrDuplicateHandler is returned when a listener binds the same kind twice.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrSlotsFull is returned when adding handles beyond a Slots capacity.
	ErrSlotsFull = errors.New("listener slots full")

	// ErrValueHandle is returned by strict builds for a value handle whose
	// handler methods have pointer receivers.
	ErrValueHandle = errors.New("handler methods need a pointer handle")

	// ErrNilTable is returned when firing through a nil table.
	ErrNilTable = errors.New("dispatch table is nil")
)

// UnregisteredEventError wraps ErrUnregisteredEvent with the fired kind.
type UnregisteredEventError struct {
	Kind event.Kind
	Name string
}

// Error implements the error interface.
func (e *UnregisteredEventError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("event kind not registered: %s", e.Name)
	}
	return fmt.Sprintf("event kind not registered: %#x", uint64(e.Kind))
}

// Unwrap returns the underlying error.
func (e *UnregisteredEventError) Unwrap() error { return ErrUnregisteredEvent }

// HandlerError reports the handler that aborted a firing.
type HandlerError struct {
	Listener int
	Name     string
	Event    string
	Err      error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("listener %d (%s) failed handling %s: %v", e.Listener, e.Name, e.Event, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error { return e.Err }

// Is matches ErrHandlerFailed.
func (e *HandlerError) Is(target error) bool { return target == ErrHandlerFailed }

// MissingHandlerError reports a listener rejected by a strict build.
type MissingHandlerError struct {
	Listener int
	Name     string
	Event    string
}

// Error implements the error interface.
func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("listener %d (%s) does not handle %s", e.Listener, e.Name, e.Event)
}

// Unwrap returns the underlying error.
func (e *MissingHandlerError) Unwrap() error { return ErrMissingHandler }

// OutOfRangeError wraps ErrListenerOutOfRange.
type OutOfRangeError struct {
	Listener int
	Len      int
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("listener index %d out of range for collection of %d", e.Listener, e.Len)
}

// Unwrap returns the underlying error.
func (e *OutOfRangeError) Unwrap() error { return ErrListenerOutOfRange }

// ValueHandleError wraps ErrValueHandle.
type ValueHandleError struct {
	Listener int
	Type     string
}

// Error implements the error interface.
func (e *ValueHandleError) Error() string {
	return fmt.Sprintf("listener %d: %s handles events through *%s; add a pointer", e.Listener, e.Type, e.Type)
}

// Unwrap returns the underlying error.
func (e *ValueHandleError) Unwrap() error { return ErrValueHandle }

// PayloadTypeError wraps ErrPayloadType.
type PayloadTypeError struct {
	Event   string
	Payload any
}

// Error implements the error interface.
func (e *PayloadTypeError) Error() string {
	return fmt.Sprintf("payload %T does not match event %s", e.Payload, e.Event)
}

// Unwrap returns the underlying error.
func (e *PayloadTypeError) Unwrap() error { return ErrPayloadType }

// DuplicateHandlerError wraps ErrDuplicateHandler.
type DuplicateHandlerError struct {
	Listener string
	Event    string
}

// Error implements the error interface.
func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("listener %s binds %s more than once", e.Listener, e.Event)
}

// Unwrap returns the underlying error.
func (e *DuplicateHandlerError) Unwrap() error { return ErrDuplicateHandler }

// ErrorCode resolves err to a dispatch error code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnregisteredEvent):
		return errorCodeUnregisteredEvent
	case errors.Is(err, ErrHandlerFailed):
		return errorCodeHandlerFailed
	case errors.Is(err, ErrMissingHandler):
		return errorCodeMissingHandler
	case errors.Is(err, ErrListenerOutOfRange):
		return errorCodeOutOfRange
	case errors.Is(err, ErrPayloadType):
		return errorCodePayloadType
	case errors.Is(err, event.ErrNoEvents),
		errors.Is(err, event.ErrDuplicateKind),
		errors.Is(err, ErrDuplicateHandler),
		errors.Is(err, ErrSlotsFull),
		errors.Is(err, ErrValueHandle):
		return errorCodeInvalidBuild
	default:
		return errorCodeUnknown
	}
}

// ExitCode maps errors to CLI exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch ErrorCode(err) {
	case errorCodeUnregisteredEvent, errorCodeInvalidBuild, errorCodeMissingHandler:
		return 2
	case errorCodeHandlerFailed:
		return 3
	default:
		return 1
	}
}
