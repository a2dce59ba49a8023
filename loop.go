package cooploop

import "time"

// scheduled is the type-erased view of a Task[R] that Loop needs in
// order to hold heterogeneous Task instantiations in one slice: Go
// forbids a non-generic container from holding Task[int] and Task[string]
// directly, but every operation Loop performs on a scheduled task
// (stepping it, checking completion, cancelling it) has a signature that
// does not depend on R.
type scheduled interface {
	taskID() TaskID
	tick()
	isDone() bool
	Cancel(cause error) bool
}

// Loop is a single-threaded cooperative scheduler. Nothing about it is
// safe for concurrent use from multiple goroutines; by design, exactly
// one Coro runs at a time, driven by repeated calls to Tick.
type Loop struct {
	opts   *loopOptions
	nextID uint64

	running []scheduled
	toAdd   []scheduled
}

// New constructs a Loop. With no options it is silent (logging disabled)
// and polls socket readiness every 10ms using the real wall clock.
func New(opts ...Option) *Loop {
	return &Loop{opts: resolveOptions(opts)}
}

// Now returns the Loop's configured clock, letting Sleep and Gather be
// driven by an injected clock in tests.
func (l *Loop) Now() time.Time { return l.opts.clock() }

// PollInterval returns the configured Socket readiness poll timeout.
func (l *Loop) PollInterval() time.Duration { return l.opts.pollInterval }

func (l *Loop) nextTaskID() TaskID {
	l.nextID++
	return TaskID(l.nextID)
}

func (l *Loop) schedule(s scheduled) {
	l.toAdd = append(l.toAdd, s)
}

// Tick drains newly scheduled tasks into the running set, steps every
// running task exactly once, and returns the IDs of tasks that finished
// during this tick (having already had their done callbacks fired).
func (l *Loop) Tick() []TaskID {
	if len(l.toAdd) > 0 {
		l.running = append(l.running, l.toAdd...)
		l.toAdd = l.toAdd[:0]
	}

	logDebug(l.opts.logger, logCategoryTick, "tick")

	var finished []TaskID
	remaining := l.running[:0]
	for _, s := range l.running {
		s.tick()
		if s.isDone() {
			finished = append(finished, s.taskID())
		} else {
			remaining = append(remaining, s)
		}
	}
	l.running = remaining
	return finished
}

// CancelAll cancels every currently running task and runs one final Tick
// so their unwinding is observed before the Loop is discarded.
func (l *Loop) CancelAll() {
	for _, s := range l.running {
		s.Cancel(nil)
	}
	l.Tick()
}

// currentLoop is the ambient running-loop slot: it lets Sleep, Gather,
// and CreateTask be called without threading a *Loop through every call,
// so long as they run inside a RunUntilComplete/Run call.
var currentLoop *Loop

// SetRunningLoop installs l as the ambient running loop. Passing nil
// clears it. Scoping the ambient slot for the duration of a call is the
// caller's responsibility; RunUntilComplete does this automatically.
func SetRunningLoop(l *Loop) {
	currentLoop = l
}

// GetRunningLoop returns the ambient running loop, or ErrNoRunningLoop if
// none is installed.
func GetRunningLoop() (*Loop, error) {
	if currentLoop == nil {
		return nil, ErrNoRunningLoop
	}
	return currentLoop, nil
}

// CreateTask schedules coro on the ambient running loop and returns its
// Task handle. It fails with ErrNoRunningLoop if called outside Run or
// RunUntilComplete.
func CreateTask[R any](coro Coro[R]) (*Task[R], error) {
	l, err := GetRunningLoop()
	if err != nil {
		return nil, err
	}
	return createTaskOn(l, coro), nil
}

func createTaskOn[R any](l *Loop, coro Coro[R]) *Task[R] {
	t := NewTask(l.nextTaskID(), coro)
	l.schedule(t)
	return t
}

// RunUntilComplete installs l as the ambient running loop, schedules
// coro, and ticks l until coro's task finishes, restoring whatever loop
// (if any) was ambient beforehand. On return every other task still
// running on l has been cancelled.
func RunUntilComplete[R any](l *Loop, coro Coro[R]) (R, error) {
	prev := currentLoop
	SetRunningLoop(l)
	defer SetRunningLoop(prev)

	t := createTaskOn(l, coro)
	for {
		if t.Done() {
			l.CancelAll()
			return t.Result(), t.Err()
		}
		l.Tick()
	}
}

// Run constructs a fresh Loop from opts and runs body to completion on
// it, the top-level entry point for a cooploop program.
func Run[R any](body func(yield Yield) (R, error), opts ...Option) (R, error) {
	l := New(opts...)
	return RunUntilComplete(l, Func(body))
}

// RunForever installs l as the ambient running loop and ticks it
// indefinitely, for a program whose work is driven entirely by tasks
// scheduled via CreateTask rather than a single top-level Coro with a
// result. It never returns normally: it keeps ticking after every task
// has finished, and CancelAll cancels tasks without stopping it. Only a
// panic out of Tick unwinds it, restoring whatever loop was previously
// ambient.
func (l *Loop) RunForever() {
	prev := currentLoop
	SetRunningLoop(l)
	defer SetRunningLoop(prev)

	for {
		l.Tick()
	}
}
