package stream

import (
	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// Sink receives the events of one stream subscription. After Error or End no
// further calls are made.
type Sink[A any] interface {
	Event(t scheduler.Time, v A)
	Error(t scheduler.Time, err error)
	End(t scheduler.Time)
}

// Stream produces a time-ordered sequence of values to exactly the sink it is
// run with. Run starts the subscription and returns the handle that cancels it.
type Stream[A any] interface {
	Run(sink Sink[A], s scheduler.Scheduler) disposable.Disposable
}

// Func adapts a function to a Stream.
type Func[A any] func(sink Sink[A], s scheduler.Scheduler) disposable.Disposable

// Run calls f(sink, s).
func (f Func[A]) Run(sink Sink[A], s scheduler.Scheduler) disposable.Disposable {
	return f(sink, s)
}

// SinkFuncs adapts callbacks to a Sink. Nil callbacks are skipped.
type SinkFuncs[A any] struct {
	OnEvent func(t scheduler.Time, v A)
	OnError func(t scheduler.Time, err error)
	OnEnd   func(t scheduler.Time)
}

// Event calls OnEvent.
func (s SinkFuncs[A]) Event(t scheduler.Time, v A) {
	if s.OnEvent != nil {
		s.OnEvent(t, v)
	}
}

// Error calls OnError.
func (s SinkFuncs[A]) Error(t scheduler.Time, err error) {
	if s.OnError != nil {
		s.OnError(t, err)
	}
}

// End calls OnEnd.
func (s SinkFuncs[A]) End(t scheduler.Time) {
	if s.OnEnd != nil {
		s.OnEnd(t)
	}
}
