package stream

import (
	"context"
	"sync"

	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// RunEffects runs s under sch and blocks until it ends, fails, or ctx is
// done. It returns the stream's error unchanged, or ctx.Err(). The
// subscription is disposed before returning.
//
// RunEffects needs a scheduler that dispatches on its own, such as a started
// scheduler.Realtime; with a Virtual scheduler it blocks until ctx is done.
func RunEffects[A any](ctx context.Context, s Stream[A], sch scheduler.Scheduler) error {
	done := make(chan error, 1)
	var once sync.Once
	finish := func(err error) {
		once.Do(func() { done <- err })
	}

	d := s.Run(SinkFuncs[A]{
		OnError: func(_ scheduler.Time, err error) { finish(err) },
		OnEnd:   func(scheduler.Time) { finish(nil) },
	}, sch)

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if derr := d.Dispose(); err == nil {
		err = derr
	}
	return err
}

// Collect runs s like RunEffects and returns the events it emitted.
func Collect[A any](ctx context.Context, s Stream[A], sch scheduler.Scheduler) ([]A, error) {
	var mu sync.Mutex
	var values []A
	err := RunEffects(ctx, Tap(func(v A) {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
	}, s), sch)

	mu.Lock()
	defer mu.Unlock()
	return values, err
}
