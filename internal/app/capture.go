package app

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/netsdr/internal/domain"
	"github.com/bft-labs/netsdr/internal/ports"
	"github.com/bft-labs/netsdr/pkg/log"
)

// DefaultStopTimeout bounds the STOP_IQ write issued after the receive ends.
const DefaultStopTimeout = 5 * time.Second

// Device is the session surface a capture drives.
type Device interface {
	Connect(ctx context.Context) error
	Disconnect() error
	SetFrequency(ctx context.Context, hz int64) error
	StartStreaming(ctx context.Context) error
	StopStreaming(ctx context.Context) error
	ReceiveStream(ctx context.Context, path string) (int64, error)
}

// CaptureConfig contains configuration for a single capture.
type CaptureConfig struct {
	Host        string
	Port        int
	FrequencyHz int64
	Output      string

	// Duration bounds the receive. Zero receives until the peer closes the
	// stream or the context is cancelled.
	Duration       time.Duration
	ConnectTimeout time.Duration
	StopTimeout    time.Duration

	// WatchPath enables retuning from this config file while receiving.
	WatchPath string
}

// Capture runs connect, tune, start, receive, stop and disconnect against a
// device and summarizes the result.
type Capture struct {
	config CaptureConfig
	device Device
	repo   ports.CaptureRepository
	loader FrequencyLoader
	logger log.Logger
	phases *phaseTracker
}

// NewCapture creates a capture. repo, loader and observer may be nil.
func NewCapture(
	config CaptureConfig,
	device Device,
	repo ports.CaptureRepository,
	loader FrequencyLoader,
	logger log.Logger,
	observer PhaseObserver,
) *Capture {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultStopTimeout
	}
	return &Capture{
		config: config,
		device: device,
		repo:   repo,
		loader: loader,
		logger: logger,
		phases: newPhaseTracker(logger, observer),
	}
}

// Phase returns the current phase of the capture.
func (c *Capture) Phase() Phase {
	return c.phases.current()
}

// Run executes the capture. The device is disconnected on every path. The
// first failing step ends the sequence and its error is returned.
//
// Cancelling ctx while receiving is a normal stop: STOP_IQ is still sent.
func (c *Capture) Run(ctx context.Context) (rec domain.CaptureRecord, err error) {
	rec = domain.CaptureRecord{
		Host:        c.config.Host,
		Port:        c.config.Port,
		FrequencyHz: c.config.FrequencyHz,
		Path:        c.config.Output,
	}

	defer func() {
		if derr := c.device.Disconnect(); derr != nil {
			c.logger.Warn("disconnect failed", log.Err(derr))
		}
		if err != nil {
			c.phases.enter(PhaseFailed, err.Error())
			return
		}
		c.phases.enter(PhaseDone, rec.StopReason)
	}()

	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	c.logger.Info("starting capture",
		log.String("addr", addr),
		log.Int64("hz", c.config.FrequencyHz),
		log.String("path", c.config.Output),
		log.Duration("duration", c.config.Duration),
		log.Bool("retune", c.retuneEnabled()),
		log.Bool("record", c.repo != nil),
	)
	c.phases.enter(PhaseConnecting, addr)
	if err := c.connect(ctx); err != nil {
		return rec, err
	}

	c.phases.enter(PhaseTuning, strconv.FormatInt(c.config.FrequencyHz, 10))
	if err := c.device.SetFrequency(ctx, c.config.FrequencyHz); err != nil {
		return rec, err
	}
	if err := c.device.StartStreaming(ctx); err != nil {
		return rec, err
	}

	c.phases.enter(PhaseStreaming, c.config.Output)
	recvErr := c.receive(ctx, &rec)
	c.save(ctx, rec)
	if recvErr != nil {
		return rec, recvErr
	}

	c.phases.enter(PhaseStopping, rec.StopReason)
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.StopTimeout)
	defer cancel()
	if err := c.device.StopStreaming(stopCtx); err != nil {
		return rec, err
	}

	c.logger.Info("capture complete",
		log.String("path", rec.Path),
		log.Int64("bytes", rec.Bytes),
		log.Duration("elapsed", rec.Duration()),
		log.String("stop_reason", rec.StopReason),
		log.Int("retunes", rec.Retunes),
	)
	return rec, nil
}

// retuneEnabled reports whether a retune watcher runs while receiving.
func (c *Capture) retuneEnabled() bool {
	return c.config.WatchPath != "" && c.loader != nil
}

func (c *Capture) connect(ctx context.Context) error {
	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}
	return c.device.Connect(ctx)
}

// receive streams into the output, running the retune watcher alongside when
// configured, and fills in the receive fields of rec.
func (c *Capture) receive(ctx context.Context, rec *domain.CaptureRecord) error {
	recvCtx := ctx
	if c.config.Duration > 0 {
		var cancel context.CancelFunc
		recvCtx, cancel = context.WithTimeout(ctx, c.config.Duration)
		defer cancel()
	}

	var watcher *RetuneWatcher
	if c.retuneEnabled() {
		watcher = NewRetuneWatcher(c.config.WatchPath, c.config.FrequencyHz, c.loader, c.device, c.logger)
	}

	rec.StartedAt = time.Now().UTC()

	var n int64
	g, gctx := errgroup.WithContext(recvCtx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	g.Go(func() error {
		defer stopWatch()
		var err error
		n, err = c.device.ReceiveStream(gctx, c.config.Output)
		return err
	})
	if watcher != nil {
		g.Go(func() error {
			if err := watcher.Run(watchCtx); err != nil {
				c.logger.Warn("retune watcher disabled", log.Err(err))
			}
			return nil
		})
	}
	err := g.Wait()

	rec.FinishedAt = time.Now().UTC()
	rec.Bytes = n
	if watcher != nil {
		rec.Retunes = watcher.Retunes()
		rec.FrequencyHz = watcher.Frequency()
	}

	switch {
	case err != nil:
		rec.StopReason = domain.StopError
		rec.Error = err.Error()
	case ctx.Err() != nil:
		rec.StopReason = domain.StopCanceled
	case errors.Is(recvCtx.Err(), context.DeadlineExceeded):
		rec.StopReason = domain.StopDeadline
	default:
		rec.StopReason = domain.StopPeerClosed
	}
	return err
}

// save persists rec when a repository is configured. Failures are logged.
func (c *Capture) save(ctx context.Context, rec domain.CaptureRecord) {
	if c.repo == nil {
		return
	}
	if err := c.repo.Save(context.WithoutCancel(ctx), rec); err != nil {
		c.logger.Error("save capture record failed", log.String("path", rec.Path), log.Err(err))
		return
	}
	c.logger.Debug("capture record saved", log.String("path", rec.Path))
}
