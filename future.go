package cooploop

// Future is a write-once result cell: a Coro that pauses until something
// else calls SetResult or SetError on it, exactly once. Unlike the
// original Python Future, which infers completion by comparing its
// internal result against a sentinel, "done" here is an explicit boolean.
type Future[R any] struct {
	done   bool
	result R
	err    error
}

// NewFuture returns an unresolved Future.
func NewFuture[R any]() *Future[R] {
	return &Future[R]{}
}

// SetResult resolves the Future successfully. It is a no-op if the
// Future is already resolved.
func (f *Future[R]) SetResult(result R) {
	if f.done {
		return
	}
	f.done = true
	f.result = result
}

// SetError resolves the Future with a failure. It is a no-op if the
// Future is already resolved.
func (f *Future[R]) SetError(err error) {
	if f.done {
		return
	}
	f.done = true
	f.err = err
}

// Done reports whether the Future has been resolved, successfully or
// not.
func (f *Future[R]) Done() bool {
	return f.done
}

// Result returns the resolved value. It is only meaningful once Done
// reports true and SetResult (not SetError) resolved the Future.
func (f *Future[R]) Result() R {
	return f.result
}

// Step implements Coro. A cancellation injected while the Future is
// still unresolved aborts the wait immediately, mirroring the original's
// behaviour of a thrown cancellation unwinding straight through a plain
// (non-cancel-aware) awaitable.
func (f *Future[R]) Step(cancel error) (done bool, err error) {
	if cancel != nil && !f.done {
		return true, wrapCancel(cancel)
	}
	if f.done {
		return true, f.err
	}
	return false, nil
}

func wrapCancel(cause error) error {
	if _, ok := cause.(*CancelledError); ok {
		return cause
	}
	return &CancelledError{Cause: cause}
}
