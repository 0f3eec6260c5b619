// Package multicast fans one upstream subscription out to many sinks.
package multicast

import (
	"sync"

	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// Key identifies one sink added to a Hub.
type Key uint64

type entry[A any] struct {
	key  Key
	sink stream.Sink[A]
}

// Hub is the broadcast primitive: a set of sinks that each receive every
// event, error and end delivered to the hub. The zero value is ready to use.
//
// Broadcasting iterates over a snapshot, so sinks may add or remove sinks
// (including themselves) while being called.
type Hub[A any] struct {
	mu    sync.Mutex
	sinks []entry[A]
	next  Key
}

// Add registers sink and returns its key and the new sink count.
func (h *Hub[A]) Add(sink stream.Sink[A]) (Key, int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	k := h.next
	sinks := make([]entry[A], len(h.sinks), len(h.sinks)+1)
	copy(sinks, h.sinks)
	h.sinks = append(sinks, entry[A]{key: k, sink: sink})
	return k, len(h.sinks)
}

// Remove unregisters the sink added under k and returns the new sink count.
// Removing an unknown key leaves the set unchanged.
func (h *Hub[A]) Remove(k Key) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.sinks {
		if e.key != k {
			continue
		}
		sinks := make([]entry[A], 0, len(h.sinks)-1)
		sinks = append(sinks, h.sinks[:i]...)
		h.sinks = append(sinks, h.sinks[i+1:]...)
		break
	}
	return len(h.sinks)
}

// Len returns the number of registered sinks.
func (h *Hub[A]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sinks)
}

func (h *Hub[A]) snapshot() []entry[A] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sinks
}

// Event delivers v to every sink.
func (h *Hub[A]) Event(t scheduler.Time, v A) {
	for _, e := range h.snapshot() {
		e.sink.Event(t, v)
	}
}

// Error delivers err to every sink.
func (h *Hub[A]) Error(t scheduler.Time, err error) {
	for _, e := range h.snapshot() {
		e.sink.Error(t, err)
	}
}

// End delivers End to every sink.
func (h *Hub[A]) End(t scheduler.Time) {
	for _, e := range h.snapshot() {
		e.sink.End(t)
	}
}

// Dispose drops every sink.
func (h *Hub[A]) Dispose() error {
	h.mu.Lock()
	h.sinks = nil
	h.mu.Unlock()
	return nil
}
