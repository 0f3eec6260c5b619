package testutil

import (
	"sync"
	"time"
)

// MockClock is a wall clock for tests with controllable time.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set sets the mock clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// MockDisposable counts Dispose calls and can return a configured error.
type MockDisposable struct {
	mu    sync.Mutex
	calls int
	err   error
}

// NewMockDisposable creates a MockDisposable returning err from every Dispose.
func NewMockDisposable(err error) *MockDisposable {
	return &MockDisposable{err: err}
}

// Dispose records the call.
func (m *MockDisposable) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

// Calls returns the number of Dispose calls.
func (m *MockDisposable) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
