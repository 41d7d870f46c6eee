package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	sessionConnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "session",
			Name:      "connects_total",
			Help:      "Connection attempts to the device.",
		},
		[]string{"result"},
	)
	sessionCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "session",
			Name:      "commands_total",
			Help:      "Control commands written to the device.",
		},
		[]string{"command"},
	)
	sessionReceivedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "netsdr",
			Subsystem: "session",
			Name:      "received_bytes_total",
			Help:      "IQ bytes relayed from the device into sinks.",
		},
	)
)

// RegisterMetrics registers the session collectors with the default registry.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sessionConnects, sessionCommands, sessionReceivedBytes)
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

// SessionMetrics implements ports.SessionMetrics with Prometheus counters.
type SessionMetrics struct{}

// NewSessionMetrics registers the collectors and returns a recorder.
func NewSessionMetrics() SessionMetrics {
	RegisterMetrics()
	return SessionMetrics{}
}

func (SessionMetrics) ConnectAttempt(success bool) {
	result := "error"
	if success {
		result = "ok"
	}
	sessionConnects.WithLabelValues(result).Inc()
}

func (SessionMetrics) CommandSent(token string) {
	sessionCommands.WithLabelValues(token).Inc()
}

func (SessionMetrics) BytesReceived(n int) {
	if n > 0 {
		sessionReceivedBytes.Add(float64(n))
	}
}
