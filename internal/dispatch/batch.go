package dispatch

import (
	"go.uber.org/atomic"
)

// State is the dispatch worker's lifecycle position.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateSending
	StateCompleted
	StateCancelled
	StateFatalError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateSending:
		return "sending"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFatalError:
		return "fatal_error"
	}

	return "unknown"
}

// Terminal reports whether the worker has stopped in this state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFatalError
}

// ProgressEvent is emitted once per recipient, in input order. Position is
// 1-based.
type ProgressEvent struct {
	Position    int
	Recipient   string
	Status      string
	ErrorDetail string
}

// Outcome is the batch-level result. It is independent of per-recipient
// failures: a batch that drained every recipient is Completed even when some
// rows failed, and the audit rows carry the per-recipient detail.
type Outcome struct {
	State     State
	Message   string
	Succeeded int
	Failed    int
	Err       error // underlying cause when State is StateFatalError
}

// BatchHandle is the caller's view of one running batch.
type BatchHandle struct {
	batchID  string
	state    *atomic.Int32
	cancel   *atomic.Bool
	progress chan ProgressEvent
	done     chan Outcome
	finished chan struct{}
}

func newBatchHandle(batchID string, recipients int) *BatchHandle {
	return &BatchHandle{
		batchID:  batchID,
		state:    atomic.NewInt32(int32(StateIdle)),
		cancel:   atomic.NewBool(false),
		progress: make(chan ProgressEvent, recipients),
		done:     make(chan Outcome, 1),
		finished: make(chan struct{}),
	}
}

func (h *BatchHandle) BatchID() string {
	return h.batchID
}

func (h *BatchHandle) State() State {
	return State(h.state.Load())
}

// Cancel requests a cooperative stop. The worker checks the flag between
// recipients; an in-flight send is never interrupted mid-message.
func (h *BatchHandle) Cancel() {
	h.cancel.Store(true)
}

// Progress yields one event per recipient in strict input order. The channel
// is closed when the worker stops.
func (h *BatchHandle) Progress() <-chan ProgressEvent {
	return h.progress
}

// Done yields the single aggregate outcome.
func (h *BatchHandle) Done() <-chan Outcome {
	return h.done
}

func (h *BatchHandle) setState(s State) {
	h.state.Store(int32(s))
}

func (h *BatchHandle) cancelled() bool {
	return h.cancel.Load()
}
