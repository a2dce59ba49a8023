package cooploop

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no additional state.
var (
	// ErrNoRunningLoop is returned by ambient helpers (CreateTask, Run's
	// inner calls) when invoked without a Loop installed via Run or
	// SetRunningLoop.
	ErrNoRunningLoop = errors.New("cooploop: no running loop")

	// ErrQueueFull is returned by Queue.PutNowait when the queue is at
	// capacity.
	ErrQueueFull = errors.New("cooploop: queue full")

	// ErrQueueEmpty is returned by Queue.GetNowait when the queue holds
	// no items.
	ErrQueueEmpty = errors.New("cooploop: queue empty")

	// ErrTaskDoneUnderflow is returned by Queue.TaskDone when called more
	// times than items were put into the queue.
	ErrTaskDoneUnderflow = errors.New("cooploop: task_done called too many times")

	// ErrLockNotAcquired is returned by Lock.Release when the lock is not
	// currently held.
	ErrLockNotAcquired = errors.New("cooploop: release of unacquired lock")

	// ErrTimeout is returned by Gather when the supplied timeout elapses
	// before every awaited Coro finishes.
	ErrTimeout = errors.New("cooploop: timeout")
)

// CancelledError reports that a Coro was cancelled while paused. Cause,
// when non-nil, is the error that was injected to cause the
// cancellation; a nil Cause means the cancellation had no particular
// reason attached.
type CancelledError struct {
	Cause error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	if e.Cause == nil {
		return "cooploop: cancelled"
	}
	return fmt.Sprintf("cooploop: cancelled: %s", e.Cause.Error())
}

// Unwrap returns the underlying cause for use with errors.Is / errors.As.
func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is also a *CancelledError, ignoring Cause.
// This lets callers write errors.Is(err, new(CancelledError)) as well as
// the more idiomatic var check pattern via errors.As.
func (e *CancelledError) Is(target error) bool {
	_, ok := target.(*CancelledError)
	return ok
}

// IsCancelled reports whether err is, or wraps, a *CancelledError.
func IsCancelled(err error) bool {
	var ce *CancelledError
	return errors.As(err, &ce)
}

// SocketError wraps a failed syscall performed by a Socket, naming the
// operation that failed.
type SocketError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *SocketError) Error() string {
	return fmt.Sprintf("cooploop: socket: %s: %s", e.Op, e.Err.Error())
}

// Unwrap returns the underlying syscall error for use with errors.Is /
// errors.As.
func (e *SocketError) Unwrap() error {
	return e.Err
}
