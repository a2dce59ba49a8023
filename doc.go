// Package cooploop provides a minimal, single-threaded cooperative
// concurrency runtime for Go: a [Loop] that schedules resumable
// computations ([Coro]) wrapped as [Task] handles, plus the waiter-based
// synchronization primitives ([Future], [Event], [Lock], [Queue]) needed
// to coordinate them, and a non-blocking [Socket] readiness contract for
// driving network I/O from inside the loop.
//
// # Architecture
//
// There is no preemption and no parallelism: exactly one [Coro] runs at
// any instant, and it runs until it explicitly yields control back to the
// [Loop] by calling the [Yield] function it was handed. The [Loop] drives
// everything from [Loop.Tick], which steps every currently scheduled
// [Task] exactly once, collects the ones that finished, and fires their
// completion callbacks before returning.
//
// A single process-wide loop slot ("the running loop") lets code call
// [CreateTask] and the primitive constructors without threading a [Loop]
// through every call; [Run] installs a [Loop] into that slot for the
// duration of a top-level call and tears it down afterwards.
//
// # Coroutines
//
// A [Coro] is the explicit, reified form of a resumable computation: a
// state machine with a [Coro.Step] method that either completes (carrying
// a result via [Coro.Result]) or pauses, and which accepts an injected
// cancellation error at the next pause point. [Func] adapts an ordinary
// Go function written in a yield-calling style into this protocol using a
// goroutine and a pair of unbuffered handshake channels, the idiomatic Go
// substitute for a generator that needs values thrown back into it.
//
// # Usage
//
//	result, err := cooploop.Run(func(yield cooploop.Yield) (int, error) {
//	    if err := cooploop.Sleep(yield, 10*time.Millisecond); err != nil {
//	        return 0, err
//	    }
//	    return 42, nil
//	})
//
// # Error Types
//
// The package provides a small typed error taxonomy:
//   - [ErrNoRunningLoop]: ambient operations called with no running [Loop]
//   - [CancelledError]: a [Coro] was cancelled mid-flight
//   - [ErrQueueFull], [ErrQueueEmpty]: non-blocking [Queue] operations
//   - [ErrTaskDoneUnderflow]: [Queue.TaskDone] called too many times
//   - [ErrLockNotAcquired]: [Lock.Release] called on an unlocked [Lock]
//   - [ErrTimeout]: a [Gather] deadline elapsed
//   - [SocketError]: a [Socket] syscall failed
//
// All satisfy the standard [error] interface and support [errors.Is] /
// [errors.As] through Unwrap.
package cooploop
