package scheduler

import (
	"fmt"
	"sync/atomic"

	pferrors "github.com/vnykmshr/proxyflow/pkg/common/errors"
)

// ScheduledTask is a Task placed on a timeline. Disposing it cancels any
// pending run and disposes the task.
type ScheduledTask struct {
	time      Time
	period    Time
	task      Task
	scheduler Scheduler

	seq   uint64
	index int

	active   atomic.Bool
	disposed atomic.Bool
}

func newScheduledTask(at, period Time, task Task, s Scheduler) *ScheduledTask {
	st := &ScheduledTask{
		time:      at,
		period:    period,
		task:      task,
		scheduler: s,
		index:     -1,
	}
	st.active.Store(true)
	return st
}

// Time returns the logical time of the next run.
func (st *ScheduledTask) Time() Time {
	return st.time
}

// Period returns the repeat period, or a value <= 0 for one-shot tasks.
func (st *ScheduledTask) Period() Time {
	return st.period
}

// Active reports whether the task may still run.
func (st *ScheduledTask) Active() bool {
	return st.active.Load()
}

// Dispose cancels the task and disposes it. Only the first call has effect.
func (st *ScheduledTask) Dispose() error {
	if !st.disposed.CompareAndSwap(false, true) {
		return nil
	}
	if st.active.Load() {
		st.scheduler.Cancel(st)
	}
	return st.task.Dispose()
}

func (st *ScheduledTask) periodic() bool {
	return st.period > 0
}

// run executes the task, turning a panic into an error delivered to the
// task's Error method. It reports whether the task panicked.
func (st *ScheduledTask) run() (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err := pferrors.NewOperationError("scheduler", "Run",
				fmt.Errorf("%w: %v", pferrors.ErrTaskPanicked, r))
			st.task.Error(st.time, err)
		}
	}()
	st.task.Run(st.time)
	return false
}
