package netsdr

import "github.com/bft-labs/netsdr/internal/domain"

var (
	// ErrNotConnected is returned by commands and ReceiveStream without a connection.
	ErrNotConnected = domain.ErrNotConnected

	// ErrClosed is returned by Connect after Close.
	ErrClosed = domain.ErrClosed
)

type (
	// ConnectionError reports a dial failure.
	ConnectionError = domain.ConnectionError

	// TransmitError reports a failed command write.
	TransmitError = domain.TransmitError

	// ReceiveError reports a read or sink failure during ReceiveStream.
	ReceiveError = domain.ReceiveError

	// SinkError reports that the sink could not be opened exclusively.
	SinkError = domain.SinkError
)
