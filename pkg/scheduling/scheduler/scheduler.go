package scheduler

import (
	"time"

	"github.com/vnykmshr/proxyflow/pkg/disposable"
)

// Time is a point on a scheduler's logical clock, in milliseconds since the
// scheduler's origin.
type Time int64

// Duration converts t to a time.Duration.
func (t Time) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// FromDuration converts d to logical time, truncating to milliseconds.
func FromDuration(d time.Duration) Time {
	return Time(d / time.Millisecond)
}

// Task is a unit of work placed on a scheduler's timeline.
type Task interface {
	// Run executes the task at logical time t.
	Run(t Time)

	// Error receives a failure raised while running the task.
	Error(t Time, err error)

	// Dispose releases the task. It is called at most once, when the
	// ScheduledTask wrapping it is disposed.
	Dispose() error
}

// Scheduler is the logical-time authority and dispatch loop that streams run
// under. Tasks are dispatched one at a time in time order; tasks due at the
// same time run in the order they were scheduled.
type Scheduler interface {
	// Now returns the current logical time.
	Now() Time

	// ScheduleTask places task on the timeline delay milliseconds from now.
	// A positive period re-runs the task every period milliseconds until it
	// is disposed; zero or negative runs it once.
	ScheduleTask(delay, period Time, task Task) *ScheduledTask

	// Cancel removes st from the timeline without disposing its task.
	Cancel(st *ScheduledTask)
}

// Clock reports wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock backed by time.Now.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// TaskFunc adapts a function to a Task whose errors are discarded. Use it for
// scheduler bookkeeping that cannot fail; stream tasks should implement Task.
type TaskFunc func(t Time)

// Run calls f(t).
func (f TaskFunc) Run(t Time) { f(t) }

// Error discards err.
func (f TaskFunc) Error(Time, error) {}

// Dispose does nothing.
func (f TaskFunc) Dispose() error { return nil }

// Delay schedules a one-shot task and returns it as a Disposable.
func Delay(s Scheduler, delay Time, task Task) disposable.Disposable {
	return s.ScheduleTask(delay, 0, task)
}

// Asap schedules a one-shot task at the current time.
func Asap(s Scheduler, task Task) disposable.Disposable {
	return s.ScheduleTask(0, 0, task)
}

// Periodic schedules task to run now and then every period.
func Periodic(s Scheduler, period Time, task Task) disposable.Disposable {
	return s.ScheduleTask(0, period, task)
}
