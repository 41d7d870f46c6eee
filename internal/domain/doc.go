// Package domain contains the value types shared by the netsdr session and
// its collaborators.
//
// It has no dependencies on infrastructure (sockets, files, logging).
//
// # Types
//
//   - [Command]: one control line sent to the device (START_IQ, STOP_IQ, SET_FREQ)
//   - [CaptureRecord]: summary of one completed capture
//   - [ConnectionError], [TransmitError], [ReceiveError], [SinkError]: typed
//     failures, all unwrapping to their cause
//   - [ErrNotConnected], [ErrClosed]: precondition violations
package domain
