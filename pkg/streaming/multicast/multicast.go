package multicast

import (
	"sync/atomic"

	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/metrics"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// Config holds configuration for a multicast stream.
type Config struct {
	// Name labels the stream's metrics.
	Name string

	// Metrics configures Prometheus instrumentation. Disabled by default.
	Metrics metrics.Config
}

// Source shares one subscription to an upstream stream between all of its
// sinks. The upstream is run when the first sink arrives and disposed when
// the last one leaves. Callers are expected to serialize Run and disposal
// through the scheduler, as with any stream.
type Source[A any] struct {
	source   stream.Stream[A]
	hub      Hub[A]
	upstream disposable.Slot

	name     string
	registry *metrics.Registry
}

// New makes s shareable.
func New[A any](s stream.Stream[A]) *Source[A] {
	return NewWithConfig(s, Config{})
}

// NewWithConfig makes s shareable with custom configuration.
func NewWithConfig[A any](s stream.Stream[A], cfg Config) *Source[A] {
	name := cfg.Name
	if name == "" {
		name = "multicast"
	}
	return &Source[A]{
		source:   s,
		name:     name,
		registry: metrics.FromConfig(cfg.Metrics),
	}
}

// Multicast returns s as a stream whose subscribers share one upstream run.
// Streams that are already multicast are returned unchanged.
func Multicast[A any](s stream.Stream[A]) stream.Stream[A] {
	if m, ok := s.(*Source[A]); ok {
		return m
	}
	return New(s)
}

// Run implements stream.Stream.
func (m *Source[A]) Run(sink stream.Sink[A], sch scheduler.Scheduler) disposable.Disposable {
	k, n := m.hub.Add(sink)
	m.recordSubscribers(n)
	sub := &subscription[A]{source: m, key: k}
	if n == 1 {
		sub.failed.Add(m.upstream.Replace(m.source.Run(m, sch)))
	}
	return sub
}

// Event implements stream.Sink.
func (m *Source[A]) Event(t scheduler.Time, v A) {
	if m.registry != nil {
		m.registry.MulticastEvents.WithLabelValues(m.name).Inc()
	}
	m.hub.Event(t, v)
}

// Error implements stream.Sink.
func (m *Source[A]) Error(t scheduler.Time, err error) {
	m.hub.Error(t, err)
}

// End implements stream.Sink.
func (m *Source[A]) End(t scheduler.Time) {
	m.hub.End(t)
}

// Subscribers returns the number of live sinks.
func (m *Source[A]) Subscribers() int {
	return m.hub.Len()
}

// Dispose releases the upstream subscription and drops every sink.
func (m *Source[A]) Dispose() error {
	err := m.upstream.Dispose()
	_ = m.hub.Dispose()
	m.recordSubscribers(0)
	return err
}

func (m *Source[A]) recordSubscribers(n int) {
	if m.registry != nil {
		m.registry.MulticastSubscribers.WithLabelValues(m.name).Set(float64(n))
	}
}

type subscription[A any] struct {
	source   *Source[A]
	key      Key
	disposed atomic.Bool
	failed   disposable.Deferred
}

func (s *subscription[A]) Dispose() error {
	if !s.disposed.CompareAndSwap(false, true) {
		return nil
	}
	n := s.source.hub.Remove(s.key)
	s.source.recordSubscribers(n)
	if n == 0 {
		return s.failed.Take(s.source.Dispose())
	}
	return s.failed.Take()
}
