package netsdr

import (
	"net"

	"github.com/bft-labs/netsdr/internal/adapters/fs"
	"github.com/bft-labs/netsdr/internal/ports"
	"github.com/bft-labs/netsdr/pkg/log"
)

type (
	// Dialer opens the transport connection. *net.Dialer satisfies it.
	// Implementations must honor ctx cancellation while dialing.
	Dialer = ports.Dialer

	// SinkOpener opens the exclusive destination for ReceiveStream.
	// The default refuses a path that is already being written, both in
	// this process and, on unix, by other processes.
	SinkOpener = ports.SinkOpener

	// Metrics observes session activity. Methods are called from the
	// goroutine doing the I/O and must not block.
	Metrics = ports.SessionMetrics
)

// Option configures optional behavior of a Session.
// Options are applied in order by New, so a later option overrides an
// earlier one. A nil argument to any With* option keeps the default.
type Option func(*options)

// options holds the optional configuration for a Session.
type options struct {
	dialer     ports.Dialer
	sinks      ports.SinkOpener
	logger     log.Logger
	metrics    ports.SessionMetrics
	bufferSize int
}

// defaultOptions returns a plain *net.Dialer, the exclusive file opener,
// a no-op logger, no-op metrics and DefaultBufferSize.
func defaultOptions() options {
	return options{
		dialer:     &net.Dialer{},
		sinks:      fs.NewExclusiveFileOpener(),
		logger:     log.NewNoopLogger(),
		metrics:    ports.NopMetrics{},
		bufferSize: DefaultBufferSize,
	}
}

// WithLogger sets the logger for lifecycle and command events.
// Connects, disconnects, commands and stream results log at info level.
// The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDialer replaces the default *net.Dialer. Use it to set a local
// address, keep-alive or a custom transport in tests.
func WithDialer(d Dialer) Option {
	return func(o *options) {
		if d != nil {
			o.dialer = d
		}
	}
}

// WithSinkOpener replaces the default exclusive file opener. The opener
// is called once per ReceiveStream with the caller's path.
func WithSinkOpener(s SinkOpener) Option {
	return func(o *options) {
		if s != nil {
			o.sinks = s
		}
	}
}

// WithMetrics sets the metrics recorder. The netsdr command passes a
// Prometheus-backed recorder here. The default records nothing.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithBufferSize sets the read chunk size used by ReceiveStream.
// Each chunk is written to the sink before the next read, so the size
// bounds memory per stream. Non-positive values keep DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}
