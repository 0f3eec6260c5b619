/*
Package scheduling provides the time authority streams run under.

  - scheduler: Logical time, tasks, the Virtual and Realtime schedulers, and
    cron expression helpers

Virtual Scheduler:

The virtual clock only moves when told to, which keeps tests deterministic:

	v := scheduler.NewVirtual()
	d := s.Run(sink, v)
	v.Advance(100) // run everything due in the next 100ms of logical time

Realtime Scheduler:

The realtime scheduler dispatches due tasks on a single goroutine, so sinks
never see concurrent calls from one scheduler:

	sched := scheduler.New()
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() { <-sched.Stop() }()
*/
package scheduling
