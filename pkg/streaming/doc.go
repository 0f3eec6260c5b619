/*
Package streaming groups the push-based stream packages.

  - stream: Sink and Stream interfaces, sources and combinators
  - multicast: Hub, the broadcast primitive, and Multicast for shared runs
  - proxy: ProxyStream, a stream whose source is attached later
  - redisstream: Redis Pub/Sub source
  - channel: Go channel adapters with backpressure strategies

Streams are lazy: nothing happens until Run is called with a sink and a
scheduler. Every event carries the scheduler's logical time, and a stream
delivers at most one of End or Error, after which it stays silent.

Basic usage:

	s := stream.Map(func(x int) int { return x * 2 }, stream.FromSlice([]int{1, 2, 3}))
	values, err := stream.Collect(ctx, s, sched)
*/
package streaming
