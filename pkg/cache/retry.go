package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is wrapped by errors from remote backends that cannot be
// reached.
var ErrUnavailable = errors.New("cache unavailable")

// RetryableError marks a failure worth another attempt, such as a refused
// connection while Redis or MongoDB is still starting.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. It returns nil for a nil err so it can
// wrap a call result directly.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry policy.
type Backoff struct {
	Attempts int           // total calls, including the first
	Initial  time.Duration // wait before the second call
	Max      time.Duration // cap on a single wait; zero means no cap
}

// defaultBackoff is used by remote backends while connecting.
var defaultBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 4 * time.Second}

// Do calls fn until it succeeds, returns an error not marked [Retryable], or
// runs out of attempts. The last error is returned; a cancelled ctx ends the
// wait early with ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	wait := b.Initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= b.Attempts {
			return err
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
		if b.Max > 0 && wait > b.Max {
			wait = b.Max
		}
	}
}

// RetryWithBackoff runs fn under the default connection policy.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.Do(ctx, fn)
}
