/*
Package proxyflow provides push-based streams whose sources can be attached
after consumers have subscribed.

Streaming (pkg/streaming):
  - proxy: Subscribe now, attach the real source later, exactly once per cycle
  - multicast: Fan one upstream subscription out to many sinks
  - stream: Sources and combinators (At, Periodic, Cron, Map, Merge, Delay...)
  - redisstream: Redis Pub/Sub channels as streams
  - channel: Bridges between Go channels and streams

Scheduling (pkg/scheduling):
  - scheduler: Logical time, a deterministic virtual scheduler for tests and a
    realtime scheduler with a single dispatch goroutine

Support:
  - disposable: Idempotent resource handles
  - metrics: Prometheus instrumentation
  - log: Shared logrus logger

Example usage:

	import (
		"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
		"github.com/vnykmshr/proxyflow/pkg/streaming/proxy"
	)

	sched := scheduler.New()
	_ = sched.Start()
	defer func() { <-sched.Stop() }()

	sink, prices := proxy.Create[float64]()
	d := prices.Run(consumer, sched)
	defer d.Dispose()

	// later, once the feed is known
	if _, err := proxy.Attach(sink, feed); err != nil {
		return err
	}

See the examples directory for complete programs.
*/
package proxyflow
