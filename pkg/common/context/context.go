// Package context holds helpers for the contexts that bound stream runs.
package context

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"
)

// WithTimeoutOrSignal returns a context that is canceled when the parent is,
// when timeout elapses, or when one of sigs arrives, whichever comes first.
// A non-positive timeout means no deadline.
func WithTimeoutOrSignal(parent context.Context, timeout time.Duration, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, sigs...)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// IsDone returns true if the context has been canceled or has expired.
func IsDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// IsTimedOut returns true if the context ended because its deadline passed.
func IsTimedOut(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// IsStopError reports whether err only says that the context bounding a run
// ended, as opposed to the stream failing.
func IsStopError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
