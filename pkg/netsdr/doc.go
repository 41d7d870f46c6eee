// Package netsdr is a client for SDR devices that accept plain-text control
// commands over TCP and answer START_IQ with a raw IQ byte stream.
//
// A [Session] owns at most one connection. The expected sequence is:
//
//	s := netsdr.New("127.0.0.1", 50000, netsdr.WithLogger(logger))
//	defer s.Close()
//
//	if err := s.Connect(ctx); err != nil {
//	    return err
//	}
//	_ = s.SetFrequency(ctx, 100_000_000)
//	_ = s.StartStreaming(ctx)
//	n, err := s.ReceiveStream(ctx, "iq_data.bin")
//	_ = s.StopStreaming(ctx)
//	_ = s.Disconnect()
//
// # Wire format
//
// Commands are ASCII lines terminated by '\n': START_IQ, STOP_IQ and
// SET_FREQ <hz>. They are fire-and-forget; the device sends no
// acknowledgement. The inbound stream is unframed and written to the sink
// verbatim.
//
// # Cancellation
//
// Every blocking call takes a context. Cancelling ReceiveStream ends it with
// a nil error after the last read has been written and the sink closed; it
// does not close the connection.
//
// # Captures
//
// [Session.NewCapture] wraps the sequence above, always disconnecting and
// still sending STOP_IQ when the caller's context is cancelled mid-stream.
// Options add a JSON [CaptureRecord] next to the output and live retuning
// from a watched config file.
//
// # Errors
//
// [ErrNotConnected] marks a call made without a connection. Transport faults
// are reported as [*ConnectionError], [*TransmitError], [*ReceiveError] and
// [*SinkError], each unwrapping to its cause.
package netsdr
