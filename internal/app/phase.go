package app

import (
	"sync"

	"github.com/bft-labs/netsdr/pkg/log"
)

// Phase is the progress of a capture through the device command sequence.
// A capture moves forward through the phases in order and ends in either
// PhaseDone or PhaseFailed. Neither terminal phase can be left.
type Phase int

const (
	// PhaseIdle is the phase before Run is called.
	PhaseIdle Phase = iota

	// PhaseConnecting covers dialing the device.
	PhaseConnecting

	// PhaseTuning covers SET_FREQ and START_IQ.
	PhaseTuning

	// PhaseStreaming covers receiving IQ data into the output file, and
	// any retunes made while it runs.
	PhaseStreaming

	// PhaseStopping covers sending STOP_IQ after the receive ended.
	PhaseStopping

	// PhaseDone means the sequence completed and the device was released.
	PhaseDone

	// PhaseFailed means a step returned an error. The device is still
	// disconnected before this phase is entered.
	PhaseFailed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseConnecting:
		return "Connecting"
	case PhaseTuning:
		return "Tuning"
	case PhaseStreaming:
		return "Streaming"
	case PhaseStopping:
		return "Stopping"
	case PhaseDone:
		return "Done"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// PhaseObserver is called when a capture changes phase.
//
// OnPhaseChange runs synchronously on the capture goroutine, outside of any
// lock, so it may call Capture.Phase. It must not block. reason carries
// step detail such as the device address, the frequency or the stop reason.
type PhaseObserver interface {
	OnPhaseChange(previous, current Phase, reason string)
}

// phaseTracker records the current phase and reports transitions to the
// observer and the debug log. It is safe for concurrent use.
type phaseTracker struct {
	mu       sync.RWMutex
	phase    Phase
	logger   log.Logger
	observer PhaseObserver
}

func newPhaseTracker(logger log.Logger, observer PhaseObserver) *phaseTracker {
	return &phaseTracker{phase: PhaseIdle, logger: logger, observer: observer}
}

// current returns the phase last entered.
func (t *phaseTracker) current() Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// enter moves to next. Entering the current phase is a no-op, and terminal
// phases are sticky.
func (t *phaseTracker) enter(next Phase, reason string) {
	t.mu.Lock()
	prev := t.phase
	if prev == next || prev == PhaseDone || prev == PhaseFailed {
		t.mu.Unlock()
		return
	}
	t.phase = next
	t.mu.Unlock()

	// Emit event outside of lock
	if t.observer != nil {
		t.observer.OnPhaseChange(prev, next, reason)
	}

	t.logger.Debug("phase transition",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
}
