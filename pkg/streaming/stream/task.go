package stream

import (
	"sync/atomic"

	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// propagateTask delivers to a sink from a scheduled task until disposed.
type propagateTask[A any] struct {
	sink   Sink[A]
	fn     func(t scheduler.Time, p *propagateTask[A])
	active atomic.Bool
}

func propagate[A any](sink Sink[A], fn func(t scheduler.Time, p *propagateTask[A])) *propagateTask[A] {
	p := &propagateTask[A]{sink: sink, fn: fn}
	p.active.Store(true)
	return p
}

func (p *propagateTask[A]) Run(t scheduler.Time) {
	if p.active.Load() {
		p.fn(t, p)
	}
}

func (p *propagateTask[A]) Error(t scheduler.Time, err error) {
	p.error(t, err)
}

func (p *propagateTask[A]) Dispose() error {
	p.active.Store(false)
	return nil
}

func (p *propagateTask[A]) event(t scheduler.Time, v A) {
	if p.active.Load() {
		p.sink.Event(t, v)
	}
}

func (p *propagateTask[A]) end(t scheduler.Time) {
	if p.active.CompareAndSwap(true, false) {
		p.sink.End(t)
	}
}

func (p *propagateTask[A]) error(t scheduler.Time, err error) {
	if p.active.CompareAndSwap(true, false) {
		p.sink.Error(t, err)
	}
}
