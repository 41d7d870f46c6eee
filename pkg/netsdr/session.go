package netsdr

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bft-labs/netsdr/internal/domain"
	"github.com/bft-labs/netsdr/internal/ports"
	"github.com/bft-labs/netsdr/pkg/log"
)

// Defaults used when New is given an empty host or zero port.
const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 50000
	DefaultBufferSize = 8 << 10
)

// aLongTimeAgo is a deadline in the past, used to unblock pending I/O.
var aLongTimeAgo = time.Unix(1, 0)

// Session is one logical connection to a device.
//
// Connect, Disconnect and ReceiveStream are meant to be called in sequence by
// one caller. Commands may be issued while ReceiveStream runs; they are
// written one at a time.
type Session struct {
	host string
	port int

	dialer     ports.Dialer
	sinks      ports.SinkOpener
	logger     log.Logger
	metrics    ports.SessionMetrics
	bufferSize int

	mu       sync.Mutex
	conn     net.Conn
	disposed bool

	// wmu serializes command writes.
	wmu sync.Mutex
}

// New creates a disconnected session for host:port.
func New(host string, port int, opts ...Option) *Session {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Session{
		host:       host,
		port:       port,
		dialer:     o.dialer,
		sinks:      o.sinks,
		logger:     o.logger,
		metrics:    o.metrics,
		bufferSize: o.bufferSize,
	}
}

// Addr returns the device address in host:port form.
func (s *Session) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// IsConnected reports whether the session holds a live connection.
func (s *Session) IsConnected() bool {
	return s.current() != nil
}

func (s *Session) current() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Connect dials the device. It is a no-op when already connected.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.disposed:
		s.mu.Unlock()
		return ErrClosed
	case s.conn != nil:
		s.mu.Unlock()
		s.logger.Info("already connected", log.String("addr", s.Addr()))
		return nil
	}
	s.mu.Unlock()

	addr := s.Addr()
	s.logger.Info("connecting", log.String("addr", addr))

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	s.metrics.ConnectAttempt(err == nil)
	if err != nil {
		s.logger.Error("connect failed", log.String("addr", addr), log.Err(err))
		return &ConnectionError{Addr: addr, Err: err}
	}

	s.mu.Lock()
	if s.disposed || s.conn != nil {
		disposed := s.disposed
		s.mu.Unlock()
		conn.Close()
		if disposed {
			return ErrClosed
		}
		return nil
	}
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("connected", log.String("addr", addr))
	return nil
}

// Disconnect closes the connection if there is one. Close errors are logged
// and dropped; Disconnect always returns nil.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	s.logger.Info("disconnecting", log.String("addr", s.Addr()))
	if err := conn.Close(); err != nil {
		s.logger.Debug("close failed", log.Err(err))
	}
	s.logger.Info("disconnected", log.String("addr", s.Addr()))
	return nil
}

// Close disposes the session, releasing the connection if still held.
// Only the first call has an effect. Connect fails with ErrClosed afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	s.logger.Debug("disposing session", log.String("addr", s.Addr()))
	if conn != nil {
		_ = conn.Close()
	}
	return nil
}

// drop forgets conn after an unrecoverable I/O error, unless it was already
// replaced or released.
func (s *Session) drop(conn net.Conn, cause error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.mu.Unlock()

	s.logger.Warn("connection lost", log.String("addr", s.Addr()), log.Err(cause))
	_ = conn.Close()
}

// StartStreaming asks the device to begin sending IQ data.
func (s *Session) StartStreaming(ctx context.Context) error {
	return s.send(ctx, domain.StartIQ())
}

// StopStreaming asks the device to stop sending IQ data.
func (s *Session) StopStreaming(ctx context.Context) error {
	return s.send(ctx, domain.StopIQ())
}

// SetFrequency tunes the receiver to hz. The value is not range-checked.
func (s *Session) SetFrequency(ctx context.Context, hz int64) error {
	return s.send(ctx, domain.SetFreq(hz))
}

// send writes one command line in a single Write.
func (s *Session) send(ctx context.Context, cmd domain.Command) error {
	conn := s.current()
	if conn == nil {
		s.logger.Warn("command issued while not connected", log.String("command", cmd.String()))
		return ErrNotConnected
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := ctx.Err(); err != nil {
		return &TransmitError{Command: cmd.String(), Err: err}
	}

	stop := interruptOnCancel(ctx, conn.SetWriteDeadline)
	_, err := conn.Write(cmd.Encode())
	stop()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The deadline error is ours; report why it was set.
			err = ctxErr
		} else {
			s.drop(conn, err)
		}
		s.logger.Error("send failed", log.String("command", cmd.String()), log.Err(err))
		return &TransmitError{Command: cmd.String(), Err: err}
	}

	s.metrics.CommandSent(cmd.Token)
	s.logger.Info("sent command", log.String("command", cmd.String()))
	return nil
}

// ReceiveStream relays the inbound stream into the sink at path until ctx is
// done, the peer closes the stream, or the connection is released. Those
// three outcomes return a nil error. It returns the number of bytes written.
// The sink is closed before ReceiveStream returns on every path.
func (s *Session) ReceiveStream(ctx context.Context, path string) (int64, error) {
	conn := s.current()
	if conn == nil {
		s.logger.Warn("receive issued while not connected", log.String("path", path))
		return 0, ErrNotConnected
	}

	sink, err := s.sinks.Open(path)
	if err != nil {
		s.logger.Error("open sink failed", log.String("path", path), log.Err(err))
		return 0, &SinkError{Path: path, Err: err}
	}

	s.logger.Info("receiving IQ data", log.String("path", path))
	start := time.Now()

	n, err := s.relay(ctx, conn, sink)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = &ReceiveError{Op: "close", Err: cerr}
	}
	if err != nil {
		s.logger.Error("receive failed",
			log.String("path", path),
			log.Int64("bytes", n),
			log.Err(err),
		)
		return n, err
	}

	s.logger.Info("IQ data saved",
		log.String("path", path),
		log.Int64("bytes", n),
		log.Duration("elapsed", time.Since(start)),
	)
	return n, nil
}

func (s *Session) relay(ctx context.Context, conn net.Conn, sink io.Writer) (int64, error) {
	stop := interruptOnCancel(ctx, conn.SetReadDeadline)
	defer stop()

	buf := make([]byte, s.bufferSize)
	var total int64

	for ctx.Err() == nil && s.current() == conn {
		n, rerr := conn.Read(buf)
		if n > 0 {
			w, werr := sink.Write(buf[:n])
			total += int64(w)
			s.metrics.BytesReceived(w)
			if werr != nil {
				return total, &ReceiveError{Op: "write", Err: werr}
			}
		}

		switch {
		case rerr == nil:
			continue
		case errors.Is(rerr, io.EOF):
			s.logger.Info("peer closed stream", log.String("addr", s.Addr()))
			return total, nil
		case ctx.Err() != nil:
			return total, nil
		case errors.Is(rerr, net.ErrClosed):
			// released by Disconnect or Close
			return total, nil
		default:
			s.drop(conn, rerr)
			return total, &ReceiveError{Op: "read", Err: rerr}
		}
	}
	return total, nil
}

// interruptOnCancel pushes the deadline into the past once ctx is done so a
// blocked Read or Write returns. The returned stop must be called after the
// I/O; it waits for a running callback and clears the deadline.
func interruptOnCancel(ctx context.Context, setDeadline func(time.Time) error) (stop func()) {
	if ctx.Done() == nil {
		return func() {}
	}

	fired := make(chan struct{})
	stopAfter := context.AfterFunc(ctx, func() {
		_ = setDeadline(aLongTimeAgo)
		close(fired)
	})

	return func() {
		if !stopAfter() {
			<-fired
		}
		_ = setDeadline(time.Time{})
	}
}
