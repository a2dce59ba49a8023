package cooploop

import (
	"container/list"
	"fmt"
)

// Event is a latch: Wait pauses until Set is called, after which every
// current waiter and every later Wait proceeds immediately until Clear
// resets it. Unlike
// Python's asyncio.Event.set(), which resolves the waiters it wakes but
// leaves them sitting in its internal waiter list, Set here drains every
// currently queued waiter, so the waiter queue never retains stale
// entries past a Set call.
type Event struct {
	set     bool
	waiters *list.List // of *Future[struct{}]
}

// NewEvent returns a cleared Event.
func NewEvent() *Event {
	return &Event{waiters: list.New()}
}

// IsSet reports whether the Event has been Set since construction or the
// last Clear.
func (e *Event) IsSet() bool {
	return e.set
}

// Set marks the Event set and resolves every currently waiting Wait
// call. It is a no-op if already set.
func (e *Event) Set() {
	if e.set {
		return
	}
	e.set = true
	if n := e.waiters.Len(); n > 0 {
		logDebug(globalLogger, logCategoryWaiter, fmt.Sprintf("event waking %d waiters", n))
	}
	for el := e.waiters.Front(); el != nil; {
		next := el.Next()
		el.Value.(*Future[struct{}]).SetResult(struct{}{})
		e.waiters.Remove(el)
		el = next
	}
}

// Clear marks the Event unset, so future Wait calls pause again.
func (e *Event) Clear() {
	e.set = false
}

// Wait pauses until the Event is Set, returning immediately if it
// already is.
func (e *Event) Wait(yield Yield) error {
	if e.set {
		return nil
	}
	fut := NewFuture[struct{}]()
	el := e.waiters.PushBack(fut)
	logDebug(globalLogger, logCategoryWaiter, fmt.Sprintf("event waiter enqueued, %d waiting", e.waiters.Len()))
	_, err := Await(yield, fut)
	e.waiters.Remove(el)
	return err
}
