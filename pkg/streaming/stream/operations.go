package stream

import (
	"sync"
	"sync/atomic"

	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// Map transforms each event with f.
func Map[A, B any](f func(A) B, s Stream[A]) Stream[B] {
	return Func[B](func(sink Sink[B], sch scheduler.Scheduler) disposable.Disposable {
		return s.Run(SinkFuncs[A]{
			OnEvent: func(t scheduler.Time, v A) { sink.Event(t, f(v)) },
			OnError: sink.Error,
			OnEnd:   sink.End,
		}, sch)
	})
}

// Filter keeps the events for which keep returns true.
func Filter[A any](keep func(A) bool, s Stream[A]) Stream[A] {
	return Func[A](func(sink Sink[A], sch scheduler.Scheduler) disposable.Disposable {
		return s.Run(SinkFuncs[A]{
			OnEvent: func(t scheduler.Time, v A) {
				if keep(v) {
					sink.Event(t, v)
				}
			},
			OnError: sink.Error,
			OnEnd:   sink.End,
		}, sch)
	})
}

// Tap calls f with each event before passing it on unchanged.
func Tap[A any](f func(A), s Stream[A]) Stream[A] {
	return Func[A](func(sink Sink[A], sch scheduler.Scheduler) disposable.Disposable {
		return s.Run(SinkFuncs[A]{
			OnEvent: func(t scheduler.Time, v A) {
				f(v)
				sink.Event(t, v)
			},
			OnError: sink.Error,
			OnEnd:   sink.End,
		}, sch)
	})
}

// Take emits the first n events, then ends and disposes the source.
func Take[A any](n int, s Stream[A]) Stream[A] {
	if n <= 0 {
		return Empty[A]()
	}
	return Func[A](func(sink Sink[A], sch scheduler.Scheduler) disposable.Disposable {
		ts := &takeSink[A]{sink: sink, remaining: n}
		ts.upstream.Swap(s.Run(ts, sch))
		if ts.done.Load() {
			ts.failed.Add(ts.upstream.Dispose())
		}
		return ts
	})
}

type takeSink[A any] struct {
	sink      Sink[A]
	remaining int
	done      atomic.Bool
	upstream  disposable.Slot
	failed    disposable.Deferred
}

// Dispose releases the upstream and reports any error from releasing it
// early after the n-th event.
func (ts *takeSink[A]) Dispose() error {
	return ts.failed.Take(ts.upstream.Dispose())
}

func (ts *takeSink[A]) Event(t scheduler.Time, v A) {
	if ts.done.Load() {
		return
	}
	ts.remaining--
	ts.sink.Event(t, v)
	if ts.remaining == 0 && ts.done.CompareAndSwap(false, true) {
		ts.sink.End(t)
		ts.failed.Add(ts.upstream.Dispose())
	}
}

func (ts *takeSink[A]) Error(t scheduler.Time, err error) {
	if ts.done.CompareAndSwap(false, true) {
		ts.sink.Error(t, err)
	}
}

func (ts *takeSink[A]) End(t scheduler.Time) {
	if ts.done.CompareAndSwap(false, true) {
		ts.sink.End(t)
	}
}

// Delay shifts every event and the end of s later by d. Errors are not
// delayed.
func Delay[A any](d scheduler.Time, s Stream[A]) Stream[A] {
	return Func[A](func(sink Sink[A], sch scheduler.Scheduler) disposable.Disposable {
		ds := &delaySink[A]{sink: sink, sched: sch, delay: d, pending: map[*scheduler.ScheduledTask]struct{}{}}
		upstream := s.Run(ds, sch)
		return disposable.All(upstream, disposable.Func(ds.dispose))
	})
}

type delaySink[A any] struct {
	sink  Sink[A]
	sched scheduler.Scheduler
	delay scheduler.Time

	mu       sync.Mutex
	pending  map[*scheduler.ScheduledTask]struct{}
	disposed bool
}

func (ds *delaySink[A]) schedule(fn func(t scheduler.Time, p *propagateTask[A])) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.disposed {
		return
	}
	var st *scheduler.ScheduledTask
	task := propagate(ds.sink, func(t scheduler.Time, p *propagateTask[A]) {
		ds.mu.Lock()
		delete(ds.pending, st)
		ds.mu.Unlock()
		fn(t, p)
	})
	st = ds.sched.ScheduleTask(ds.delay, 0, task)
	ds.pending[st] = struct{}{}
}

func (ds *delaySink[A]) Event(_ scheduler.Time, v A) {
	ds.schedule(func(t scheduler.Time, p *propagateTask[A]) { p.event(t, v) })
}

func (ds *delaySink[A]) End(scheduler.Time) {
	ds.schedule(func(t scheduler.Time, p *propagateTask[A]) { p.end(t) })
}

func (ds *delaySink[A]) Error(t scheduler.Time, err error) {
	ds.sink.Error(t, err)
}

func (ds *delaySink[A]) dispose() error {
	ds.mu.Lock()
	ds.disposed = true
	pending := make([]disposable.Disposable, 0, len(ds.pending))
	for st := range ds.pending {
		pending = append(pending, st)
	}
	ds.pending = nil
	ds.mu.Unlock()
	return disposable.All(pending...).Dispose()
}

// Merge emits the events of all streams as they arrive. It ends when every
// stream has ended and fails on the first error.
func Merge[A any](streams ...Stream[A]) Stream[A] {
	if len(streams) == 0 {
		return Empty[A]()
	}
	return Func[A](func(sink Sink[A], sch scheduler.Scheduler) disposable.Disposable {
		ms := &mergeSink[A]{sink: sink}
		ms.active.Store(int32(len(streams)))
		ds := make([]disposable.Disposable, len(streams))
		for i, s := range streams {
			ds[i] = s.Run(ms, sch)
		}
		return disposable.All(ds...)
	})
}

type mergeSink[A any] struct {
	sink   Sink[A]
	active atomic.Int32
	done   atomic.Bool
}

func (ms *mergeSink[A]) Event(t scheduler.Time, v A) {
	if !ms.done.Load() {
		ms.sink.Event(t, v)
	}
}

func (ms *mergeSink[A]) Error(t scheduler.Time, err error) {
	if ms.done.CompareAndSwap(false, true) {
		ms.sink.Error(t, err)
	}
}

func (ms *mergeSink[A]) End(t scheduler.Time) {
	if ms.active.Add(-1) == 0 && ms.done.CompareAndSwap(false, true) {
		ms.sink.End(t)
	}
}

// ContinueWith runs the stream returned by f once s ends, forwarding its
// events to the same sink.
func ContinueWith[A any](f func() Stream[A], s Stream[A]) Stream[A] {
	return Func[A](func(sink Sink[A], sch scheduler.Scheduler) disposable.Disposable {
		cs := &continueSink[A]{sink: sink, sched: sch, next: f}
		cs.current.Swap(s.Run(cs, sch))
		return cs
	})
}

type continueSink[A any] struct {
	sink     Sink[A]
	sched    scheduler.Scheduler
	next     func() Stream[A]
	current  disposable.Slot
	switched atomic.Bool
	disposed atomic.Bool
	failed   disposable.Deferred
}

func (cs *continueSink[A]) Event(t scheduler.Time, v A) {
	cs.sink.Event(t, v)
}

func (cs *continueSink[A]) Error(t scheduler.Time, err error) {
	cs.sink.Error(t, err)
}

func (cs *continueSink[A]) End(t scheduler.Time) {
	if cs.disposed.Load() || !cs.switched.CompareAndSwap(false, true) {
		return
	}
	cs.failed.Add(cs.current.Replace(cs.next().Run(cs.sink, cs.sched)))
	if cs.disposed.Load() {
		cs.failed.Add(cs.current.Dispose())
	}
}

func (cs *continueSink[A]) Dispose() error {
	cs.disposed.Store(true)
	return cs.failed.Take(cs.current.Dispose())
}
