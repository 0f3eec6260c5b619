package stream

import (
	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// Now emits v at the current time, then ends.
func Now[A any](v A) Stream[A] {
	return At(0, v)
}

// At emits v after delay, then ends.
func At[A any](delay scheduler.Time, v A) Stream[A] {
	return Func[A](func(sink Sink[A], s scheduler.Scheduler) disposable.Disposable {
		return scheduler.Delay(s, delay, propagate(sink, func(t scheduler.Time, p *propagateTask[A]) {
			p.event(t, v)
			p.end(t)
		}))
	})
}

// Empty ends immediately without emitting.
func Empty[A any]() Stream[A] {
	return Func[A](func(sink Sink[A], s scheduler.Scheduler) disposable.Disposable {
		return scheduler.Asap(s, propagate(sink, func(t scheduler.Time, p *propagateTask[A]) {
			p.end(t)
		}))
	})
}

// Never neither emits nor ends.
func Never[A any]() Stream[A] {
	return Func[A](func(Sink[A], scheduler.Scheduler) disposable.Disposable {
		return disposable.None()
	})
}

// ThrowError fails immediately with err.
func ThrowError[A any](err error) Stream[A] {
	return Func[A](func(sink Sink[A], s scheduler.Scheduler) disposable.Disposable {
		return scheduler.Asap(s, propagate(sink, func(t scheduler.Time, p *propagateTask[A]) {
			p.error(t, err)
		}))
	})
}

// FromSlice emits every element of values at the current time, then ends.
func FromSlice[A any](values []A) Stream[A] {
	return Func[A](func(sink Sink[A], s scheduler.Scheduler) disposable.Disposable {
		return scheduler.Asap(s, propagate(sink, func(t scheduler.Time, p *propagateTask[A]) {
			for _, v := range values {
				if !p.active.Load() {
					return
				}
				p.event(t, v)
			}
			p.end(t)
		}))
	})
}

// Periodic emits v now and then every period. It never ends.
func Periodic[A any](period scheduler.Time, v A) Stream[A] {
	return Func[A](func(sink Sink[A], s scheduler.Scheduler) disposable.Disposable {
		return scheduler.Periodic(s, period, propagate(sink, func(t scheduler.Time, p *propagateTask[A]) {
			p.event(t, v)
		}))
	})
}
