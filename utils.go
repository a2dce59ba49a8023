package cooploop

import (
	"fmt"
	"time"
)

// Sleep pauses the calling coroutine until at least d has elapsed,
// measured against the ambient Loop's clock (real time by default, or
// whatever WithClock installed). Calling it outside a running Loop falls
// back to the real wall clock.
func Sleep(yield Yield, d time.Duration) error {
	now := time.Now
	if l, err := GetRunningLoop(); err == nil {
		now = l.Now
	}
	start := now()
	for now().Sub(start) < d {
		if err := yield(); err != nil {
			return err
		}
	}
	return nil
}

// Gather schedules every coro as a Task on the ambient running Loop and
// pauses until all of them finish, returning their results in the same
// order the coros were given. A timeout <= 0 means wait indefinitely. If
// the timeout elapses, or the calling coroutine is itself cancelled,
// every task Gather scheduled is cancelled before the error is returned.
func Gather(yield Yield, timeout time.Duration, coros ...Coro[any]) ([]any, error) {
	loop, err := GetRunningLoop()
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task[any], len(coros))
	for i, c := range coros {
		tasks[i] = createTaskOn(loop, c)
	}

	hasTimeout := timeout > 0
	start := loop.Now()

	for {
		allDone := true
		for _, t := range tasks {
			if !t.Done() {
				allDone = false
				break
			}
		}
		if allDone {
			break
		}
		if hasTimeout && loop.Now().Sub(start) >= timeout {
			pending := pendingIDs(tasks)
			cancelAll(tasks)
			return nil, fmt.Errorf("%w: tasks %v", ErrTimeout, pending)
		}
		if cancel := yield(); cancel != nil {
			cancelAll(tasks)
			return nil, cancel
		}
	}

	results := make([]any, len(tasks))
	for i, t := range tasks {
		if t.Err() != nil {
			return nil, t.Err()
		}
		results[i] = t.Result()
	}
	return results, nil
}

func cancelAll(tasks []*Task[any]) {
	for _, t := range tasks {
		t.Cancel(nil)
	}
}

// pendingIDs returns the ids of tasks not yet done, for naming in
// Gather's timeout error.
func pendingIDs(tasks []*Task[any]) []TaskID {
	var ids []TaskID
	for _, t := range tasks {
		if !t.Done() {
			ids = append(ids, t.ID())
		}
	}
	return ids
}
