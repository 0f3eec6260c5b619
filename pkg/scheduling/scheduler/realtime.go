package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/vnykmshr/proxyflow/pkg/metrics"
)

// Realtime is a Scheduler driven by the wall clock. A single dispatch
// goroutine runs every task, so stream callbacks are serialized. Tasks may be
// scheduled from any goroutine.
type Realtime struct {
	clock  Clock
	origin time.Time
	in     instruments

	mu      sync.Mutex
	tl      timeline
	running bool
	stopped bool

	wake     chan struct{}
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
}

// New creates a realtime scheduler with default configuration.
// Call Start to begin dispatching.
func New() *Realtime {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a realtime scheduler with custom configuration.
func NewWithConfig(cfg Config) *Realtime {
	cfg = cfg.withDefaults("default")
	return &Realtime{
		clock:  cfg.Clock,
		origin: cfg.Clock.Now(),
		in: instruments{
			name:     cfg.Name,
			registry: metrics.FromConfig(cfg.Metrics),
			logger:   cfg.Logger,
		},
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Now returns the milliseconds elapsed since the scheduler was created.
func (r *Realtime) Now() Time {
	return FromDuration(r.clock.Now().Sub(r.origin))
}

// ScheduleTask implements Scheduler. Tasks scheduled before Start wait for it.
func (r *Realtime) ScheduleTask(delay, period Time, task Task) *ScheduledTask {
	if delay < 0 {
		delay = 0
	}
	st := newScheduledTask(r.Now()+delay, period, task, r)

	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		st.active.Store(false)
		return st
	}
	r.tl.add(st)
	n := r.tl.len()
	r.mu.Unlock()

	r.in.scheduled()
	r.in.pending(n)
	r.signal()
	return st
}

// Cancel implements Scheduler.
func (r *Realtime) Cancel(st *ScheduledTask) {
	st.active.Store(false)
	r.mu.Lock()
	r.tl.remove(st)
	n := r.tl.len()
	r.mu.Unlock()
	r.in.pending(n)
	r.signal()
}

// Pending returns the number of tasks on the timeline.
func (r *Realtime) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tl.len()
}

// Start begins dispatching tasks.
func (r *Realtime) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return fmt.Errorf("scheduler %q has been stopped", r.in.name)
	}
	if r.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	r.running = true
	go r.run()
	return nil
}

// Stop halts dispatching and drops pending tasks without disposing them.
// The returned channel closes once the dispatch goroutine has exited.
func (r *Realtime) Stop() <-chan struct{} {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		wasRunning := r.running
		r.running = false
		for _, st := range r.tl.clear() {
			st.active.Store(false)
		}
		r.mu.Unlock()

		close(r.done)
		if !wasRunning {
			close(r.finished)
		}
		r.in.pending(0)
	})
	return r.finished
}

func (r *Realtime) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Realtime) run() {
	defer close(r.finished)

	for {
		r.mu.Lock()
		next := r.tl.peek()
		r.mu.Unlock()

		if next == nil {
			select {
			case <-r.wake:
				continue
			case <-r.done:
				return
			}
		}

		if wait := (next.time - r.Now()).Duration(); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-r.wake:
				timer.Stop()
				continue
			case <-r.done:
				timer.Stop()
				return
			}
		}

		r.runDue()

		select {
		case <-r.done:
			return
		default:
		}
	}
}

// runDue runs every task due at the current time, one at a time.
func (r *Realtime) runDue() {
	now := r.Now()
	for {
		r.mu.Lock()
		st := r.tl.popDue(now)
		r.mu.Unlock()
		if st == nil {
			return
		}

		if !st.periodic() {
			st.active.Store(false)
		}
		panicked := st.run()
		r.in.ran(st, panicked)

		r.mu.Lock()
		if st.periodic() && st.active.Load() && !r.stopped {
			st.time += st.period
			r.tl.add(st)
		}
		n := r.tl.len()
		r.mu.Unlock()
		r.in.pending(n)
	}
}
