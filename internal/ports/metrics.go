package ports

// SessionMetrics observes session activity.
type SessionMetrics interface {
	ConnectAttempt(success bool)
	CommandSent(token string)
	BytesReceived(n int)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ConnectAttempt(bool) {}
func (NopMetrics) CommandSent(string)  {}
func (NopMetrics) BytesReceived(int)   {}
