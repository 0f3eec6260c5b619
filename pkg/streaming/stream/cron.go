package stream

import (
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// Cron emits the wall-clock firing time of a cron expression each time it
// fires. The expression is parsed by scheduler.ParseCron.
func Cron(expr string) (Stream[time.Time], error) {
	return CronWithClock(expr, scheduler.SystemClock{})
}

// CronWithClock is Cron measured against clock. The first firing is computed
// from clock.Now() when the stream is run; later firings follow the schedule
// on the scheduler's logical clock.
func CronWithClock(expr string, clock scheduler.Clock) (Stream[time.Time], error) {
	schedule, err := scheduler.ParseCron(expr)
	if err != nil {
		return nil, err
	}
	return FromSchedule(schedule, clock), nil
}

// FromSchedule emits the firing times of schedule. It ends when the schedule
// has no further firings.
func FromSchedule(schedule cron.Schedule, clock scheduler.Clock) Stream[time.Time] {
	return Func[time.Time](func(sink Sink[time.Time], s scheduler.Scheduler) disposable.Disposable {
		r := &cronRun{sink: sink, sched: s, schedule: schedule}
		r.scheduleAfter(clock.Now())
		return r
	})
}

type cronRun struct {
	sink     Sink[time.Time]
	sched    scheduler.Scheduler
	schedule cron.Schedule
	current  disposable.Slot
	disposed atomic.Bool
	failed   disposable.Deferred
}

func (r *cronRun) scheduleAfter(from time.Time) {
	next, delay := scheduler.NextRun(r.schedule, from)

	var task *propagateTask[time.Time]
	if next.IsZero() {
		task = propagate(r.sink, func(t scheduler.Time, p *propagateTask[time.Time]) {
			p.end(t)
		})
	} else {
		task = propagate(r.sink, func(t scheduler.Time, p *propagateTask[time.Time]) {
			p.event(t, next)
			if !r.disposed.Load() {
				r.scheduleAfter(next)
			}
		})
	}

	r.failed.Add(r.current.Replace(scheduler.Delay(r.sched, delay, task)))
	if r.disposed.Load() {
		r.failed.Add(r.current.Dispose())
	}
}

func (r *cronRun) Dispose() error {
	r.disposed.Store(true)
	return r.failed.Take(r.current.Dispose())
}
