/*
Package stream defines push-based streams and the combinators used to build them.

Core Concepts:

A Stream produces a time-ordered sequence of values to exactly one Sink per
Run. Run returns a Disposable; disposing it cancels the subscription. Streams
never emit from inside Run itself: sources place tasks on the Scheduler passed
to Run, and every event carries the logical time of the task that produced it.

	type Sink[A any] interface {
		Event(t scheduler.Time, v A)
		Error(t scheduler.Time, err error)
		End(t scheduler.Time)
	}

	type Stream[A any] interface {
		Run(sink Sink[A], s scheduler.Scheduler) disposable.Disposable
	}

Sources:

	stream.Now(v)              // v at the current time, then end
	stream.At(10, v)           // v at t+10, then end
	stream.FromSlice(values)   // every value at the current time, then end
	stream.Periodic(100, v)    // v every 100ms, forever
	stream.Cron("0/5 * * * * *") // wall-clock firing times
	stream.Empty[int]()        // end immediately
	stream.Never[int]()        // nothing, ever
	stream.ThrowError[int](err)

Combinators:

	stream.Map(f, s)
	stream.Filter(keep, s)
	stream.Tap(f, s)
	stream.Take(n, s)
	stream.Delay(d, s)
	stream.Merge(a, b, c)
	stream.ContinueWith(func() Stream[A] { return next }, s)

Running:

RunEffects blocks until a stream ends or fails and returns the stream's error
unchanged:

	s := scheduler.New()
	_ = s.Start()
	defer func() { <-s.Stop() }()

	values, err := stream.Collect(ctx, stream.FromSlice([]int{1, 2, 3}), s)

With a scheduler.Virtual, subscribe a sink directly and advance the clock
instead.
*/
package stream
