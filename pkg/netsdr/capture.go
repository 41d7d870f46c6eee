package netsdr

import (
	"context"

	"github.com/bft-labs/netsdr/internal/adapters/fs"
	"github.com/bft-labs/netsdr/internal/app"
	"github.com/bft-labs/netsdr/internal/domain"
	"github.com/bft-labs/netsdr/internal/ports"
	"github.com/bft-labs/netsdr/pkg/log"
)

// Re-export capture types for embedding applications.
type (
	// Capture runs one connect, tune, stream and stop sequence.
	Capture = app.Capture

	// CaptureConfig describes a capture. Host and Port default to the session's.
	CaptureConfig = app.CaptureConfig

	// CaptureRecord summarizes a finished capture.
	CaptureRecord = domain.CaptureRecord

	// CaptureRepository persists capture records.
	CaptureRepository = ports.CaptureRepository

	// FrequencyLoader reads the desired frequency from a config file.
	FrequencyLoader = app.FrequencyLoader

	// Phase is the progress of a capture.
	Phase = app.Phase

	// PhaseObserver is notified of phase changes.
	PhaseObserver = app.PhaseObserver
)

// Capture phases.
const (
	PhaseIdle       = app.PhaseIdle
	PhaseConnecting = app.PhaseConnecting
	PhaseTuning     = app.PhaseTuning
	PhaseStreaming  = app.PhaseStreaming
	PhaseStopping   = app.PhaseStopping
	PhaseDone       = app.PhaseDone
	PhaseFailed     = app.PhaseFailed
)

// CaptureOption configures optional behavior of a Capture.
type CaptureOption func(*captureOptions)

type captureOptions struct {
	logger   log.Logger
	repo     ports.CaptureRepository
	loader   app.FrequencyLoader
	observer app.PhaseObserver
}

// WithCaptureLogger sets the logger for capture progress. Defaults to the
// session's logger.
func WithCaptureLogger(logger log.Logger) CaptureOption {
	return func(o *captureOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecord saves a CaptureRecord through repo once the receive ends.
func WithRecord(repo CaptureRepository) CaptureOption {
	return func(o *captureOptions) {
		o.repo = repo
	}
}

// WithRetune retunes the receiver while streaming whenever loader reports a
// new frequency for cfg.WatchPath.
func WithRetune(loader FrequencyLoader) CaptureOption {
	return func(o *captureOptions) {
		o.loader = loader
	}
}

// WithPhaseObserver receives phase transitions.
func WithPhaseObserver(observer PhaseObserver) CaptureOption {
	return func(o *captureOptions) {
		o.observer = observer
	}
}

// NewCapture prepares a capture driven by s.
func (s *Session) NewCapture(cfg CaptureConfig, opts ...CaptureOption) *Capture {
	o := captureOptions{logger: s.logger}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Host == "" {
		cfg.Host = s.host
	}
	if cfg.Port == 0 {
		cfg.Port = s.port
	}
	return app.NewCapture(cfg, s, o.repo, o.loader, o.logger, o.observer)
}

// NewFileRecordRepository stores records as JSON next to the capture file.
func NewFileRecordRepository() CaptureRepository {
	return fs.NewCaptureFileRepository()
}

// LoadCaptureRecord reads the record saved for the capture at path.
func LoadCaptureRecord(ctx context.Context, path string) (CaptureRecord, error) {
	return fs.NewCaptureFileRepository().Load(ctx, path)
}
