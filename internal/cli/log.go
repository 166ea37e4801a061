package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled, timestamped lines ("14:32:01.45 INFO ...") to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs a step together with how long it took.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

// lap logs msg at info level with an elapsed field and restarts the clock.
func (s *stopwatch) lap(msg string, keyvals ...any) {
	now := time.Now()
	keyvals = append(keyvals, "elapsed", now.Sub(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
	s.start = now
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by the root command, or
// log.Default when a command runs without one (in tests, for instance).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
