package domain

import (
	"errors"
	"fmt"
)

// Precondition violations. These indicate caller bugs rather than transport faults.
var (
	// ErrNotConnected is returned when an operation needs a live connection.
	ErrNotConnected = errors.New("netsdr: not connected")

	// ErrClosed is returned by Connect after the session has been disposed.
	ErrClosed = errors.New("netsdr: session closed")
)

// ConnectionError reports a failure to establish the transport connection.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("netsdr: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransmitError reports a failed command write on an open connection.
type TransmitError struct {
	Command string
	Err     error
}

func (e *TransmitError) Error() string {
	return fmt.Sprintf("netsdr: send %q: %v", e.Command, e.Err)
}

func (e *TransmitError) Unwrap() error { return e.Err }

// ReceiveError reports a failure while relaying the stream into the sink.
// Op is "read" for the socket side, "write" or "close" for the sink side.
type ReceiveError struct {
	Op  string
	Err error
}

func (e *ReceiveError) Error() string {
	return fmt.Sprintf("netsdr: receive %s: %v", e.Op, e.Err)
}

func (e *ReceiveError) Unwrap() error { return e.Err }

// SinkError reports that the destination could not be opened for exclusive writing.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("netsdr: open sink %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
