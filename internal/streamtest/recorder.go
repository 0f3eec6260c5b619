// Package streamtest provides sinks and sources for testing streams.
package streamtest

import (
	"sync"

	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
)

// Event is one recorded event.
type Event[A any] struct {
	Time  scheduler.Time
	Value A
}

// Recorder is a Sink that records everything it receives.
type Recorder[A any] struct {
	mu           sync.Mutex
	events       []Event[A]
	err          error
	endTime      scheduler.Time
	ended        bool
	terminations int
	onTerminate  func()
}

// NewRecorder creates an empty Recorder.
func NewRecorder[A any]() *Recorder[A] {
	return &Recorder[A]{}
}

// OnTerminate registers f to run after the first End or Error is recorded.
func (r *Recorder[A]) OnTerminate(f func()) *Recorder[A] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTerminate = f
	return r
}

// Event records v.
func (r *Recorder[A]) Event(t scheduler.Time, v A) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event[A]{Time: t, Value: v})
}

// Error records err.
func (r *Recorder[A]) Error(t scheduler.Time, err error) {
	r.terminate(t, err, false)
}

// End records completion.
func (r *Recorder[A]) End(t scheduler.Time) {
	r.terminate(t, nil, true)
}

func (r *Recorder[A]) terminate(t scheduler.Time, err error, ended bool) {
	r.mu.Lock()
	r.terminations++
	first := r.terminations == 1
	if first {
		r.err = err
		r.ended = ended
		r.endTime = t
	}
	f := r.onTerminate
	r.mu.Unlock()

	if first && f != nil {
		f()
	}
}

// Values returns the recorded values in arrival order.
func (r *Recorder[A]) Values() []A {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]A, len(r.events))
	for i, e := range r.events {
		out[i] = e.Value
	}
	return out
}

// Times returns the recorded event times in arrival order.
func (r *Recorder[A]) Times() []scheduler.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]scheduler.Time, len(r.events))
	for i, e := range r.events {
		out[i] = e.Time
	}
	return out
}

// Events returns a copy of the recorded events.
func (r *Recorder[A]) Events() []Event[A] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event[A](nil), r.events...)
}

// Err returns the first recorded error.
func (r *Recorder[A]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Ended reports whether the first termination was a normal End.
func (r *Recorder[A]) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

// Terminated reports whether End or Error has been recorded.
func (r *Recorder[A]) Terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminations > 0
}

// Terminations returns how many times End or Error was received. A well
// behaved stream delivers at most one.
func (r *Recorder[A]) Terminations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.terminations
}

// EndTime returns the time of the first termination.
func (r *Recorder[A]) EndTime() scheduler.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endTime
}
