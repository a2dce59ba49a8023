package cooploop

import (
	"container/list"
	"fmt"
)

// Lock is a non-reentrant mutex for cooperative tasks: Acquire pauses
// until the lock is free, Release hands it off to the next waiter in
// FIFO order.
type Lock struct {
	locked  bool
	waiters *list.List // of *Future[struct{}]
}

// NewLock returns an unlocked Lock.
func NewLock() *Lock {
	return &Lock{waiters: list.New()}
}

// Locked reports whether the Lock is currently held.
func (l *Lock) Locked() bool {
	return l.locked
}

// Acquire pauses until the Lock can be taken, then takes it. Tasks that
// arrived first win in FIFO order once the Lock frees up; a task that
// finds the Lock free with nobody already waiting takes it immediately
// without pausing at all.
func (l *Lock) Acquire(yield Yield) error {
	if !l.locked && l.waiters.Len() == 0 {
		l.locked = true
		return nil
	}
	fut := NewFuture[struct{}]()
	el := l.waiters.PushBack(fut)
	logDebug(globalLogger, logCategoryWaiter, fmt.Sprintf("lock waiter enqueued, %d waiting", l.waiters.Len()))
	_, err := Await(yield, fut)
	l.waiters.Remove(el)
	if err != nil {
		if !l.locked {
			l.wakeNext()
		}
		return err
	}
	// Release only clears locked and wakes the waiter; the waiter that
	// actually resumes is the one that sets locked back to true, so a
	// waiter cancelled between being woken and resuming doesn't strand
	// the Lock in an unlocked-but-nobody-holds-it state.
	l.locked = true
	return nil
}

// Release frees the Lock, waking the longest-waiting Acquire call if
// any. It returns ErrLockNotAcquired if the Lock is not held.
func (l *Lock) Release() error {
	if !l.locked {
		return ErrLockNotAcquired
	}
	l.locked = false
	l.wakeNext()
	return nil
}

func (l *Lock) wakeNext() {
	for el := l.waiters.Front(); el != nil; el = el.Next() {
		fut := el.Value.(*Future[struct{}])
		if !fut.Done() {
			fut.SetResult(struct{}{})
			logDebug(globalLogger, logCategoryWaiter, "lock waiter woken")
			return
		}
	}
}

// WithLock acquires the Lock, runs body, and releases the Lock on every
// return path from body, including a cancellation.
func (l *Lock) WithLock(yield Yield, body func(yield Yield) error) error {
	if err := l.Acquire(yield); err != nil {
		return err
	}
	defer l.Release()
	return body(yield)
}
