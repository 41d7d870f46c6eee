package domain

import "time"

// Reasons a capture stopped receiving.
const (
	StopPeerClosed = "peer_closed"
	StopCanceled   = "canceled"
	StopDeadline   = "duration_elapsed"
	StopError      = "error"
)

// CaptureRecord summarizes one capture. It is written next to the IQ file.
type CaptureRecord struct {
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	FrequencyHz int64     `json:"frequency_hz"`
	Path        string    `json:"path"`
	Bytes       int64     `json:"bytes"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Retunes     int       `json:"retunes"`
	StopReason  string    `json:"stop_reason"`
	Error       string    `json:"error,omitempty"`
}

// Duration is the wall time spent receiving.
func (r CaptureRecord) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
