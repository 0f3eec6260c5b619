/*
Package scheduler provides the logical clock and dispatch loop that streams run under.

Every stream subscription receives a Scheduler. Sources use it to place tasks
on a timeline; the scheduler runs those tasks one at a time, in time order,
handing each the logical Time it was scheduled for. Time is measured in
milliseconds from the scheduler's origin.

Two implementations are provided.

Virtual:

The virtual scheduler's clock only moves when a caller advances it. Tasks run
on the advancing goroutine, which makes it the scheduler of choice for tests:

	v := scheduler.NewVirtual()
	v.ScheduleTask(10, 0, task) // run at t=10
	v.Advance(10)               // task runs here

Realtime:

The realtime scheduler measures time against a wall clock and runs tasks on a
single dispatch goroutine, so stream callbacks never overlap:

	s := scheduler.New()
	if err := s.Start(); err != nil {
		log.Fatal(err)
	}
	defer func() { <-s.Stop() }()

Tasks may be scheduled from any goroutine; a task scheduled from inside another
task's Run is picked up by the same loop.

Periodic tasks:

A positive period re-runs a task until its ScheduledTask is disposed:

	st := s.ScheduleTask(0, 1000, task) // now, then every second
	defer st.Dispose()

Cron schedules:

ParseCron accepts the six-field (seconds first) format used throughout
proxyflow, five-field expressions, and descriptors such as "@every 5s":

	schedule, err := scheduler.ParseCron("0/10 * * * * *")

Panics:

A panic inside Task.Run is recovered and delivered to the task's Error method
as an *errors.OperationError wrapping errors.ErrTaskPanicked. The dispatch
loop keeps running.
*/
package scheduler
