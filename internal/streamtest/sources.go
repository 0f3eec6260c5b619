package streamtest

import (
	"sync"
	"sync/atomic"

	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// Counting wraps a stream and counts how often it is run and how often the
// returned subscriptions are disposed.
type Counting[A any] struct {
	source    stream.Stream[A]
	runs      atomic.Int32
	disposals atomic.Int32
}

// NewCounting wraps source.
func NewCounting[A any](source stream.Stream[A]) *Counting[A] {
	return &Counting[A]{source: source}
}

// Run implements stream.Stream.
func (c *Counting[A]) Run(sink stream.Sink[A], s scheduler.Scheduler) disposable.Disposable {
	c.runs.Add(1)
	d := c.source.Run(sink, s)
	return disposable.Func(func() error {
		c.disposals.Add(1)
		return d.Dispose()
	})
}

// Runs returns the number of Run calls.
func (c *Counting[A]) Runs() int { return int(c.runs.Load()) }

// Disposals returns the number of subscriptions disposed.
func (c *Counting[A]) Disposals() int { return int(c.disposals.Load()) }

// Manual is a source driven by the test: whatever sink last ran it receives
// the values pushed with Push, Fail and Complete at the scheduler's current
// time.
type Manual[A any] struct {
	mu       sync.Mutex
	sink     stream.Sink[A]
	sched    scheduler.Scheduler
	runs     int
	disposed int
	gen      int
}

// NewManual creates a Manual source.
func NewManual[A any]() *Manual[A] {
	return &Manual[A]{}
}

// Run implements stream.Stream.
func (m *Manual[A]) Run(sink stream.Sink[A], s scheduler.Scheduler) disposable.Disposable {
	m.mu.Lock()
	m.sink = sink
	m.sched = s
	m.runs++
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	return disposable.FromFunc(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.disposed++
		if m.gen == gen {
			m.sink = nil
		}
	})
}

func (m *Manual[A]) current() (stream.Sink[A], scheduler.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sink == nil {
		return nil, 0, false
	}
	return m.sink, m.sched.Now(), true
}

// Push delivers v. It reports false when nothing is subscribed.
func (m *Manual[A]) Push(v A) bool {
	sink, t, ok := m.current()
	if ok {
		sink.Event(t, v)
	}
	return ok
}

// Fail delivers err. It reports false when nothing is subscribed.
func (m *Manual[A]) Fail(err error) bool {
	sink, t, ok := m.current()
	if ok {
		sink.Error(t, err)
	}
	return ok
}

// Complete delivers End. It reports false when nothing is subscribed.
func (m *Manual[A]) Complete() bool {
	sink, t, ok := m.current()
	if ok {
		sink.End(t)
	}
	return ok
}

// Subscribed reports whether a sink is currently attached.
func (m *Manual[A]) Subscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sink != nil
}

// Runs returns the number of Run calls.
func (m *Manual[A]) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}

// Disposals returns the number of subscriptions disposed.
func (m *Manual[A]) Disposals() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}
