package proxy

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	pferrors "github.com/vnykmshr/proxyflow/pkg/common/errors"
	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/metrics"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/multicast"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// ProxyStream forwards the events of a source attached at any time to every
// current subscriber.
type ProxyStream[A any] struct {
	mu     sync.Mutex
	hub    multicast.Hub[A]
	state  State
	source stream.Stream[A]
	sched  scheduler.Scheduler

	// gen changes whenever the running subscription stops being current, so
	// a handle returned by a superseded source.Run is disposed on arrival.
	gen      uint64
	upstream disposable.Slot

	name     string
	log      *logrus.Entry
	registry *metrics.Registry
}

// New creates an unattached proxy with the default configuration.
func New[A any]() *ProxyStream[A] {
	p, _ := NewWithConfig[A](DefaultConfig())
	return p
}

// NewWithConfig creates an unattached proxy.
func NewWithConfig[A any](cfg Config) (*ProxyStream[A], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ProxyStream[A]{
		name:     cfg.Name,
		log:      cfg.logger(),
		registry: metrics.FromConfig(cfg.Metrics),
	}, nil
}

// State returns the current attachment state.
func (p *ProxyStream[A]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribers returns the number of live subscriptions.
func (p *ProxyStream[A]) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hub.Len()
}

// Run subscribes sink. If a source is attached but idle, Run starts it under
// sch. While a subscription is running, the scheduler that started it stays
// in use and sch is only recorded for later starts.
func (p *ProxyStream[A]) Run(sink stream.Sink[A], sch scheduler.Scheduler) disposable.Disposable {
	p.mu.Lock()
	key, n := p.hub.Add(sink)
	if p.state != AttachedRunning {
		p.sched = sch
	}
	var start func()
	if p.state == AttachedIdle {
		start = p.startLocked()
	}
	p.mu.Unlock()

	p.recordSubscribers(n)
	if start != nil {
		start()
	}
	return &proxyDisposable[A]{proxy: p, key: key}
}

// Attach supplies the source. If anything is subscribed the source starts
// immediately under the most recently recorded scheduler. Attaching while a
// previous source is still attached fails with an *errors.ExclusivityError
// and changes nothing.
func (p *ProxyStream[A]) Attach(s stream.Stream[A]) (stream.Stream[A], error) {
	p.mu.Lock()
	if p.state != Unattached {
		p.mu.Unlock()
		if p.registry != nil {
			p.registry.ProxyAttachRejected.WithLabelValues(p.name).Inc()
		}
		p.log.Warn("attach rejected: a source is already attached")
		return nil, pferrors.NewExclusivityError(p.name)
	}

	p.source = s
	p.state = AttachedIdle
	var start func()
	if p.hub.Len() > 0 {
		start = p.startLocked()
	}
	p.mu.Unlock()

	if p.registry != nil {
		p.registry.ProxyAttaches.WithLabelValues(p.name).Inc()
	}
	p.log.WithField("running", start != nil).Debug("source attached")
	if start != nil {
		start()
	}
	return s, nil
}

// startLocked moves an idle proxy to running and returns the function that
// runs the source. It must be called with p.mu held; the returned function
// must be called without it.
func (p *ProxyStream[A]) startLocked() func() {
	p.state = AttachedRunning
	p.gen++
	gen, src, sch := p.gen, p.source, p.sched

	return func() {
		if p.registry != nil {
			p.registry.ProxyUpstreamRuns.WithLabelValues(p.name).Inc()
		}
		p.log.Debug("starting upstream subscription")

		d := src.Run(p, sch)
		if d == nil {
			d = disposable.None()
		}

		p.mu.Lock()
		var stale disposable.Disposable
		if p.gen == gen && p.state == AttachedRunning {
			stale = p.upstream.Swap(d)
		} else {
			stale = d
		}
		p.mu.Unlock()

		p.release(stale)
	}
}

// release disposes an upstream handle outside the lock. Sink callbacks
// cannot return the error, so it is logged.
func (p *ProxyStream[A]) release(d disposable.Disposable) {
	if err := d.Dispose(); err != nil {
		p.log.WithError(err).Warn("disposing upstream subscription")
	}
}

// Event implements stream.Sink by broadcasting v to every subscriber.
func (p *ProxyStream[A]) Event(t scheduler.Time, v A) {
	if p.registry != nil {
		p.registry.ProxyEvents.WithLabelValues(p.name).Inc()
	}
	p.hub.Event(t, v)
}

// Error implements stream.Sink. The proxy is detached before err reaches the
// subscribers, so they may attach a new source in response. The running
// upstream subscription, if any, is disposed afterwards.
func (p *ProxyStream[A]) Error(t scheduler.Time, err error) {
	up := p.detach()
	if p.registry != nil {
		p.registry.ProxyErrors.WithLabelValues(p.name).Inc()
	}
	p.log.WithError(err).WithField("time", t).Debug("source failed")
	p.hub.Error(t, err)
	p.release(up)
}

// End implements stream.Sink. The proxy is detached before subscribers are
// notified, so they may attach a new source in response. The running
// upstream subscription, if any, is disposed afterwards.
func (p *ProxyStream[A]) End(t scheduler.Time) {
	up := p.detach()
	if p.registry != nil {
		p.registry.ProxyEnds.WithLabelValues(p.name).Inc()
	}
	p.log.WithField("time", t).Debug("source ended")
	p.hub.End(t)
	p.release(up)
}

// detach forgets the source and hands back the upstream handle so the caller
// can dispose it once subscribers have been notified.
func (p *ProxyStream[A]) detach() disposable.Disposable {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Unattached
	p.source = nil
	p.gen++
	return p.upstream.Swap(disposable.None())
}

// Dispose releases the upstream subscription and drops every subscriber.
// An attached source stays attached and restarts on the next Run.
func (p *ProxyStream[A]) Dispose() error {
	p.mu.Lock()
	_ = p.hub.Dispose()
	up := p.teardownLocked()
	p.mu.Unlock()

	p.recordSubscribers(0)
	return up.Dispose()
}

// remove drops the subscription under key and tears the proxy down if it was
// the last one.
func (p *ProxyStream[A]) remove(key multicast.Key) error {
	p.mu.Lock()
	n := p.hub.Remove(key)
	up := disposable.None()
	if n == 0 {
		up = p.teardownLocked()
	}
	p.mu.Unlock()

	p.recordSubscribers(n)
	return up.Dispose()
}

// teardownLocked stops a running subscription and empties the upstream slot.
// It must be called with p.mu held.
func (p *ProxyStream[A]) teardownLocked() disposable.Disposable {
	if p.state == AttachedRunning {
		p.state = AttachedIdle
		if p.registry != nil {
			p.registry.ProxyTeardowns.WithLabelValues(p.name).Inc()
		}
		p.log.Debug("last subscriber left, stopping upstream subscription")
	}
	p.gen++
	return p.upstream.Swap(disposable.None())
}

func (p *ProxyStream[A]) recordSubscribers(n int) {
	if p.registry != nil {
		p.registry.ProxySubscribers.WithLabelValues(p.name).Set(float64(n))
	}
}

// proxyDisposable is the handle returned by Run.
type proxyDisposable[A any] struct {
	proxy    *ProxyStream[A]
	key      multicast.Key
	disposed atomic.Bool
}

func (d *proxyDisposable[A]) Dispose() error {
	if !d.disposed.CompareAndSwap(false, true) {
		return nil
	}
	return d.proxy.remove(d.key)
}
