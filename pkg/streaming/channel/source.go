package channel

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// FromChan returns a stream of the values received from ch, ending when ch is
// closed. Each Run reads ch on its own goroutine and delivers through the
// scheduler, so concurrent runs compete for values.
func FromChan[T any](ch <-chan T) stream.Stream[T] {
	return stream.Func[T](func(sink stream.Sink[T], sch scheduler.Scheduler) disposable.Disposable {
		ctx, cancel := context.WithCancel(context.Background())
		r := &reader[T]{sink: sink, sched: sch, cancel: cancel, done: make(chan struct{})}
		r.active.Store(true)
		go r.loop(ctx, ch)
		return r
	})
}

type reader[T any] struct {
	sink   stream.Sink[T]
	sched  scheduler.Scheduler
	active atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (r *reader[T]) loop(ctx context.Context, ch <-chan T) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				r.deliver(func(t scheduler.Time) {
					if r.active.CompareAndSwap(true, false) {
						r.sink.End(t)
					}
				})
				return
			}
			r.deliver(func(t scheduler.Time) { r.sink.Event(t, v) })
		}
	}
}

func (r *reader[T]) deliver(fn func(scheduler.Time)) {
	scheduler.Asap(r.sched, scheduler.TaskFunc(func(t scheduler.Time) {
		if r.active.Load() {
			fn(t)
		}
	}))
}

// Dispose stops reading and waits for the reader goroutine to exit.
func (r *reader[T]) Dispose() error {
	r.once.Do(func() {
		r.active.Store(false)
		r.cancel()
	})
	<-r.done
	return nil
}
