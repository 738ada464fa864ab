package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vulntor/evdispatch/pkg/event"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"nil", nil, "", 0},
		{"unregistered", &UnregisteredEventError{Name: "x"}, errorCodeUnregisteredEvent, 2},
		{"handler", &HandlerError{Err: errors.New("boom")}, errorCodeHandlerFailed, 3},
		{"handler payload", &HandlerError{Err: &PayloadTypeError{Event: "x"}}, errorCodeHandlerFailed, 3},
		{"missing handler", fmt.Errorf("build: %w", &MissingHandlerError{}), errorCodeMissingHandler, 2},
		{"out of range", &OutOfRangeError{Listener: 3, Len: 1}, errorCodeOutOfRange, 1},
		{"payload", &PayloadTypeError{}, errorCodePayloadType, 1},
		{"no events", fmt.Errorf("build: %w", event.ErrNoEvents), errorCodeInvalidBuild, 2},
		{"slots full", ErrSlotsFull, errorCodeInvalidBuild, 2},
		{"other", errors.New("other"), errorCodeUnknown, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, ErrorCode(tc.err))
			assert.Equal(t, tc.exit, ExitCode(tc.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "event kind not registered: scan.done", (&UnregisteredEventError{Name: "scan.done"}).Error())
	assert.Equal(t, "event kind not registered: 0x10", (&UnregisteredEventError{Kind: 16}).Error())
	assert.Equal(t, "listener 1 (audit) failed handling scan.done: boom",
		(&HandlerError{Listener: 1, Name: "audit", Event: "scan.done", Err: errors.New("boom")}).Error())
	assert.Equal(t, "payload string does not match event scan.done",
		(&PayloadTypeError{Event: "scan.done", Payload: "x"}).Error())
}
