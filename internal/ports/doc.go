// Package ports defines the interfaces that connect the netsdr session and
// capture orchestration to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Dialer]: opens the transport connection to the device
//   - [SinkOpener]: opens the exclusive byte sink for one receive
//   - [SessionMetrics]: counts connects, commands and received bytes
//   - [CaptureRepository]: persists capture records
//
// Adapters live in internal/adapters and internal/observability; tests
// substitute hand-written fakes.
package ports
