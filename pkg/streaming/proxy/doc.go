/*
Package proxy provides a stream that can be subscribed to before its source
exists.

A ProxyStream is three things at once: a stream consumers run, a sink the
real source is run into, and the slot that source is attached to. Whichever of
Run and Attach happens second starts the upstream subscription, so the order
of the two calls does not change what subscribers observe.

# Basic Usage

	sink, s := proxy.Create[int]()

	// Consumers subscribe first.
	d := s.Run(consumer, sched)
	defer d.Dispose()

	// The producer attaches the source once it is known.
	if _, err := proxy.Attach(sink, source); err != nil {
		return err
	}

# Lifecycle

A proxy holds at most one attached source. Attaching a second source while
the first has not ended or failed returns an *errors.ExclusivityError and
leaves the proxy untouched. After End or Error the proxy is detached again
before subscribers are notified, so they may attach a fresh source from inside
their End or Error callbacks.

Every Run returns its own handle. Disposing the last live handle disposes the
upstream subscription; a proxy that is still attached restarts its source on
the next Run.

# Concurrency

State transitions are guarded by a mutex, and every call leaving the proxy
(running the source, broadcasting, disposing) happens with the lock released.
Attach may therefore be called from any goroutine, including while a realtime
scheduler is dispatching events.
*/
package proxy
