package cooploop

import (
	"time"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// loopOptions holds the resolved configuration for a Loop.
type loopOptions struct {
	logger       *logiface.Logger[*islog.Event]
	pollInterval time.Duration
	clock        func() time.Time
}

// Option configures a Loop at construction time.
type Option interface {
	applyLoop(*loopOptions)
}

// optionFunc implements Option via a plain closure.
type optionFunc func(*loopOptions)

func (f optionFunc) applyLoop(opts *loopOptions) { f(opts) }

// WithLogger installs a structured logger for the Loop's own tick-boundary
// events. Task cancellation, waiter churn and socket retries are logged
// through the package-level logger set by SetLogger, not this one. The
// default is a disabled logger, so a Loop constructed with no options
// does not log its ticks.
func WithLogger(logger *logiface.Logger[*islog.Event]) Option {
	return optionFunc(func(opts *loopOptions) {
		opts.logger = logger
	})
}

// WithPollInterval sets the timeout used by Socket.WaitReadable and
// Socket.WaitWritable between readiness polls, for Sockets that adopt it
// via Socket.WithLoop. The default is 10 milliseconds.
func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(opts *loopOptions) {
		if d > 0 {
			opts.pollInterval = d
		}
	})
}

// WithClock overrides the wall clock used by Sleep and Gather, so tests
// can drive timeouts deterministically. The default is time.Now.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(opts *loopOptions) {
		if now != nil {
			opts.clock = now
		}
	})
}

// defaultPollInterval matches the 10ms retry interval Python's gensocket
// passes to select() while waiting for readiness.
const defaultPollInterval = 10 * time.Millisecond

func resolveOptions(opts []Option) *loopOptions {
	cfg := &loopOptions{
		logger:       disabledLogger(),
		pollInterval: defaultPollInterval,
		clock:        time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyLoop(cfg)
	}
	return cfg
}
