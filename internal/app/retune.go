package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/netsdr/pkg/log"
)

// DefaultRetuneDebounce coalesces bursts of writes from editors.
const DefaultRetuneDebounce = 100 * time.Millisecond

// Tuner changes the receiver frequency.
type Tuner interface {
	SetFrequency(ctx context.Context, hz int64) error
}

// FrequencyLoader reads the desired frequency from the config file at path.
type FrequencyLoader func(path string) (int64, error)

// RetuneWatcher follows a config file and retunes the receiver whenever the
// configured frequency changes.
type RetuneWatcher struct {
	path     string
	load     FrequencyLoader
	tuner    Tuner
	logger   log.Logger
	debounce time.Duration

	mu      sync.Mutex
	last    int64
	retunes int
}

// NewRetuneWatcher creates a watcher for path. current is the frequency the
// receiver is already tuned to; writing the same value again is ignored.
func NewRetuneWatcher(path string, current int64, load FrequencyLoader, tuner Tuner, logger log.Logger) *RetuneWatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &RetuneWatcher{
		path:     path,
		load:     load,
		tuner:    tuner,
		logger:   logger,
		debounce: DefaultRetuneDebounce,
		last:     current,
	}
}

// Retunes returns how many frequency changes were applied.
func (w *RetuneWatcher) Retunes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.retunes
}

// Frequency returns the last frequency applied.
func (w *RetuneWatcher) Frequency() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Run watches the file's directory until ctx is done. It returns an error only
// if the watch cannot be set up.
func (w *RetuneWatcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("retune watcher: %w", err)
	}
	dir, name := filepath.Split(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("retune watcher: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("retune watcher: watch %s: %w", dir, err)
	}
	w.logger.Info("watching for frequency changes", log.String("path", abs))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			resetTimer(timer, w.debounce)

		case <-timer.C:
			w.apply(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("retune watcher error", log.Err(err))
		}
	}
}

// resetTimer rearms t for d, discarding a tick that fired but was never
// received so a burst of events yields one reload.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

func (w *RetuneWatcher) apply(ctx context.Context) {
	hz, err := w.load(w.path)
	if err != nil {
		w.logger.Warn("reload frequency failed", log.String("path", w.path), log.Err(err))
		return
	}

	w.mu.Lock()
	unchanged := hz == w.last
	w.mu.Unlock()
	if unchanged {
		w.logger.Debug("frequency unchanged", log.Int64("hz", hz))
		return
	}

	if err := w.tuner.SetFrequency(ctx, hz); err != nil {
		w.logger.Error("retune failed", log.Int64("hz", hz), log.Err(err))
		return
	}

	w.mu.Lock()
	w.last = hz
	w.retunes++
	w.mu.Unlock()
	w.logger.Info("retuned", log.Int64("hz", hz))
}
