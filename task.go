package cooploop

import "fmt"

// TaskID identifies a Task within the Loop that created it. IDs are
// assigned by a per-Loop monotonic counter rather than a UUID, so Tasks
// of two different Loops can share an ID.
type TaskID uint64

// TaskStatus is the lifecycle state of a Task.
type TaskStatus int

const (
	// StatusPending means the Task's Coro has not yet run to completion
	// and no cancellation has been requested.
	StatusPending TaskStatus = iota
	// StatusFinished means the Task's Coro completed on its own.
	StatusFinished
	// StatusCancelled means Cancel was called on the Task.
	StatusCancelled
)

// String implements fmt.Stringer.
func (s TaskStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFinished:
		return "finished"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("TaskStatus(%d)", int(s))
	}
}

// Task wraps a Coro with identity, lifecycle status, and done callbacks,
// and is what a Loop actually schedules. Done only ever reports true once
// the underlying Coro has actually stopped running — a Task cancelled
// mid-flight is not considered done until its Coro unwinds, so the Loop
// never loses track of a Coro that is still executing.
type Task[R any] struct {
	id     TaskID
	status TaskStatus
	coro   Coro[R]

	result R
	err    error

	cancelRequested bool
	cancelCause     error

	callbacks []func(*Task[R])
}

// NewTask wraps coro as a Task with the given id. Tasks are normally
// created through CreateTask rather than directly.
func NewTask[R any](id TaskID, coro Coro[R]) *Task[R] {
	return &Task[R]{id: id, coro: coro}
}

// ID returns the Task's identity.
func (t *Task[R]) ID() TaskID { return t.id }

// Status returns the Task's current lifecycle state.
func (t *Task[R]) Status() TaskStatus { return t.status }

// Done reports whether the Task's Coro has stopped running, whether by
// finishing normally or by unwinding due to cancellation.
func (t *Task[R]) Done() bool { return t.status != StatusPending }

// Result returns the Task's result. It is only meaningful once Done
// reports true and Err reports nil.
func (t *Task[R]) Result() R { return t.result }

// Err returns the error the Task's Coro finished with, including a
// *CancelledError if cancellation unwound it. It is nil for a Task that
// finished successfully, or whose Coro caught the cancellation and
// returned without an error, and meaningless while Done reports false.
func (t *Task[R]) Err() error { return t.err }

// AddDoneCallback registers cb to run once the Task finishes. If the
// Task is already done, cb runs immediately.
func (t *Task[R]) AddDoneCallback(cb func(*Task[R])) {
	if t.Done() {
		cb(t)
		return
	}
	t.callbacks = append(t.callbacks, cb)
}

// Cancel requests cancellation of the Task by synchronously stepping its
// Coro with an injected cancellation error, so a Coro that does not
// intercept cancellation finishes immediately. It returns false if the
// Task was already done. A Coro that catches the cancellation and keeps
// running is left StatusPending and continues to be ticked by the Loop
// normally; Status only becomes StatusCancelled once that Coro actually
// stops.
func (t *Task[R]) Cancel(cause error) bool {
	if t.status != StatusPending {
		return false
	}
	if cause == nil {
		cause = &CancelledError{}
	}
	t.cancelRequested = true
	t.cancelCause = wrapCancel(cause)
	logInfo(globalLogger, logCategoryTask, fmt.Sprintf("task %d cancelled", t.id))
	t.step(t.cancelCause)
	return true
}

// step advances the Coro by one pause point. cancel is nil for an
// ordinary tick, or the cancellation error when delivering one.
func (t *Task[R]) step(cancel error) {
	if t.status != StatusPending {
		return
	}
	done, err := t.coro.Step(cancel)
	if !done {
		return
	}
	t.result = t.coro.Result()
	t.err = err
	if t.cancelRequested {
		// Status reflects that cancellation was requested even if the
		// Coro caught it and returned a result of its own; Err carries
		// whatever the Coro actually decided, not a synthesized
		// cancellation error, so a Coro that recovers from cancellation
		// still reports its real outcome.
		t.status = StatusCancelled
	} else {
		t.status = StatusFinished
	}
	t.fireCallbacks()
}

func (t *Task[R]) fireCallbacks() {
	cbs := t.callbacks
	t.callbacks = nil
	for _, cb := range cbs {
		cb(t)
	}
}

// taskID, tick, isDone, and Cancel's non-generic signature together
// satisfy the internal scheduled interface the Loop uses to hold
// heterogeneous Task[R] instantiations in one slice.
func (t *Task[R]) taskID() TaskID { return t.id }
func (t *Task[R]) tick()          { t.step(nil) }
func (t *Task[R]) isDone() bool   { return t.Done() }
