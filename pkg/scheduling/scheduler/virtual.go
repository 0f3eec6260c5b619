package scheduler

import (
	"sync"

	"github.com/vnykmshr/proxyflow/pkg/metrics"
)

// Virtual is a Scheduler whose clock only moves when told to. Tasks run on
// the goroutine that calls Advance, AdvanceTo, RunNext or Flush, which makes
// stream behaviour fully deterministic in tests.
type Virtual struct {
	mu  sync.Mutex
	now Time
	tl  timeline
	in  instruments
}

// NewVirtual creates a virtual scheduler at time 0.
func NewVirtual() *Virtual {
	return NewVirtualWithConfig(Config{})
}

// NewVirtualWithConfig creates a virtual scheduler honoring Name, Logger and
// Metrics from cfg. Clock and Location are ignored.
func NewVirtualWithConfig(cfg Config) *Virtual {
	cfg = cfg.withDefaults("virtual")
	return &Virtual{
		in: instruments{
			name:     cfg.Name,
			registry: metrics.FromConfig(cfg.Metrics),
			logger:   cfg.Logger,
		},
	}
}

// Now returns the current virtual time.
func (v *Virtual) Now() Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// ScheduleTask implements Scheduler.
func (v *Virtual) ScheduleTask(delay, period Time, task Task) *ScheduledTask {
	if delay < 0 {
		delay = 0
	}
	v.mu.Lock()
	st := newScheduledTask(v.now+delay, period, task, v)
	v.tl.add(st)
	n := v.tl.len()
	v.mu.Unlock()

	v.in.scheduled()
	v.in.pending(n)
	return st
}

// Cancel implements Scheduler.
func (v *Virtual) Cancel(st *ScheduledTask) {
	st.active.Store(false)
	v.mu.Lock()
	v.tl.remove(st)
	n := v.tl.len()
	v.mu.Unlock()
	v.in.pending(n)
}

// Pending returns the number of tasks on the timeline.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tl.len()
}

// Advance moves the clock forward by d, running every task that falls due on
// the way. It returns the number of task runs.
func (v *Virtual) Advance(d Time) int {
	return v.AdvanceTo(v.Now() + d)
}

// AdvanceTo moves the clock to t, running every task due at or before t in
// order. The clock never moves backwards.
func (v *Virtual) AdvanceTo(t Time) int {
	runs := 0
	for v.step(t) {
		runs++
	}
	v.mu.Lock()
	if t > v.now {
		v.now = t
	}
	v.mu.Unlock()
	return runs
}

// RunNext jumps the clock to the earliest pending task and runs it. It
// reports false when the timeline is empty.
func (v *Virtual) RunNext() bool {
	v.mu.Lock()
	next := v.tl.peek()
	v.mu.Unlock()
	if next == nil {
		return false
	}
	return v.step(next.time)
}

// Flush runs pending tasks in time order until the timeline is empty or
// limit runs have happened. Periodic tasks keep the timeline non-empty, so
// the limit bounds them. It returns the number of runs.
func (v *Virtual) Flush(limit int) int {
	runs := 0
	for runs < limit && v.RunNext() {
		runs++
	}
	return runs
}

func (v *Virtual) step(until Time) bool {
	v.mu.Lock()
	st := v.tl.popDue(until)
	if st == nil {
		v.mu.Unlock()
		return false
	}
	if st.time > v.now {
		v.now = st.time
	}
	v.mu.Unlock()

	if !st.active.Load() {
		return true
	}
	if !st.periodic() {
		st.active.Store(false)
	}

	panicked := st.run()
	v.in.ran(st, panicked)

	v.mu.Lock()
	if st.periodic() && st.active.Load() {
		st.time += st.period
		v.tl.add(st)
	}
	n := v.tl.len()
	v.mu.Unlock()
	v.in.pending(n)
	return true
}
