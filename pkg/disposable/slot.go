package disposable

import "sync"

// Slot holds exclusive ownership of at most one Disposable. The zero value is
// an empty slot holding None.
type Slot struct {
	mu sync.Mutex
	d  Disposable
}

// Swap installs d and returns the previously held Disposable without
// disposing it. A nil d empties the slot.
func (s *Slot) Swap(d Disposable) Disposable {
	if d == nil {
		d = None()
	}
	s.mu.Lock()
	prev := s.d
	s.d = d
	s.mu.Unlock()
	if prev == nil {
		return None()
	}
	return prev
}

// Replace installs d and disposes the previously held Disposable.
func (s *Slot) Replace(d Disposable) error {
	return s.Swap(d).Dispose()
}

// Dispose empties the slot before disposing what it held, so repeated calls
// never dispose the same handle twice.
func (s *Slot) Dispose() error {
	return s.Swap(None()).Dispose()
}

// Empty reports whether the slot holds nothing but a no-op.
func (s *Slot) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d == nil || IsNone(s.d)
}
