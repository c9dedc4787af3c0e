package iec_protocol

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates the channel produced no bytes where at least one was
// required: the meter is silent, disconnected, or still switching baud rates.
var ErrTimeout = errors.New("timeout waiting for meter response")

// InvalidMessageError indicates bytes were received but violate the
// protocol's framing or grammar.
type InvalidMessageError struct {
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return "invalid message: " + e.Reason
}

func invalidMessagef(format string, args ...any) error {
	return &InvalidMessageError{Reason: fmt.Sprintf(format, args...)}
}
