package cooploop

import (
	"io"
	"log/slog"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// disabledLogger returns a logger that discards everything, used as the
// Loop default so the library is silent until a caller opts in via
// WithLogger or SetLogger.
func disabledLogger() *logiface.Logger[*islog.Event] {
	handler := slog.NewTextHandler(io.Discard, nil)
	return islog.L.New(
		islog.L.WithSlogHandler(handler),
		logiface.WithLevel[*islog.Event](logiface.LevelDisabled),
	)
}

// globalLogger is the package-level logger used by code that isn't
// called through a specific Loop's method set: Task.Cancel, the Event,
// Lock and Queue waiter paths, and Socket.
var globalLogger = disabledLogger()

// SetLogger installs the package-level logger used for task
// cancellation, waiter and socket events. It does not affect a Loop's
// tick logging, which uses the Loop's WithLogger option and is disabled
// by default.
func SetLogger(logger *logiface.Logger[*islog.Event]) {
	if logger != nil {
		globalLogger = logger
	}
}

// log categories, mirroring the taxonomy used for tick/task/waiter/socket
// diagnostics.
const (
	logCategoryTick   = "tick"
	logCategoryTask   = "task"
	logCategoryWaiter = "waiter"
	logCategorySocket = "socket"
)

func logDebug(l *logiface.Logger[*islog.Event], category, msg string) {
	l.Debug().Str("category", category).Log(msg)
}

func logInfo(l *logiface.Logger[*islog.Event], category, msg string) {
	l.Info().Str("category", category).Log(msg)
}

func logWarn(l *logiface.Logger[*islog.Event], category, msg string, err error) {
	l.Warning().Str("category", category).Err(err).Log(msg)
}
