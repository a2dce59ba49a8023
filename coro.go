package cooploop

// Yield is called by a coroutine body at every point where it is willing
// to pause and hand control back to whatever is driving it (a Loop tick,
// or an outer Coro composing this one via Await). It returns the
// cancellation error injected by the driver for this resumption, or nil
// if the coroutine was simply resumed normally.
type Yield func() error

// Coro is a reified, resumable computation. Exactly one side — the
// driver calling Step, or the coroutine body itself — runs at any given
// instant; there is no parallelism between them.
//
// Step advances the coroutine by one pause point. It returns done=true
// once the coroutine has finished, in which case Result reports its
// final value and err reports a failure (including cancellation), or
// done=false if it paused again and should be Stepped again later. The
// cancel argument, when non-nil, is delivered to the coroutine's next
// Yield call; a coroutine that ignores it runs to completion normally, a
// well-behaved one unwinds and returns a *CancelledError.
type Coro[R any] interface {
	Step(cancel error) (done bool, err error)
	Result() R
}

// Func adapts a plain Go function written in yield-calling style into
// the Coro protocol. The body runs on its own goroutine; Step and the
// body hand off control to each other over an unbuffered channel pair,
// so exactly one of them is ever running — the idiomatic substitute for
// a generator whose caller needs to throw a value back into it, which
// Go's stdlib iterators (iter.Seq / iter.Pull) cannot do.
func Func[R any](body func(yield Yield) (R, error)) Coro[R] {
	return &funcCoro[R]{body: body}
}

type funcCoro[R any] struct {
	body    func(yield Yield) (R, error)
	started bool

	resume chan error
	pause  chan struct{}
	done   chan struct{}

	result R
	err    error
}

func (c *funcCoro[R]) Step(cancel error) (done bool, err error) {
	if !c.started {
		c.started = true
		c.resume = make(chan error)
		c.pause = make(chan struct{})
		c.done = make(chan struct{})
		go c.run()
	} else {
		c.resume <- cancel
	}
	select {
	case <-c.pause:
		return false, nil
	case <-c.done:
		return true, c.err
	}
}

func (c *funcCoro[R]) Result() R {
	return c.result
}

func (c *funcCoro[R]) run() {
	yield := func() error {
		c.pause <- struct{}{}
		return <-c.resume
	}
	c.result, c.err = c.body(yield)
	close(c.done)
}

// Await drives c to completion, yielding the calling coroutine between
// each step and forwarding any cancellation injected into the calling
// coroutine on to c. It is the composition primitive used to await a
// nested Coro from within another coroutine's body, equivalent to
// Python's "yield from".
func Await[R any](yield Yield, c Coro[R]) (R, error) {
	var cancel error
	for {
		done, err := c.Step(cancel)
		if done {
			if err != nil {
				var zero R
				return zero, err
			}
			return c.Result(), nil
		}
		cancel = yield()
	}
}

// erasedCoro adapts a Coro[R] to Coro[any], needed to hold heterogeneous
// Coro instantiations (e.g. Gather's arguments) in a single slice.
type erasedCoro[R any] struct {
	inner Coro[R]
}

func (e erasedCoro[R]) Step(cancel error) (bool, error) { return e.inner.Step(cancel) }
func (e erasedCoro[R]) Result() any                     { return e.inner.Result() }

// Erase type-erases c to Coro[any], for use with heterogeneous
// collections such as Gather's variadic arguments.
func Erase[R any](c Coro[R]) Coro[any] {
	return erasedCoro[R]{inner: c}
}
