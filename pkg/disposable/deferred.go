package disposable

import (
	"errors"
	"sync"
)

// Deferred holds disposal errors raised where they cannot be returned, such
// as inside sink callbacks, until the owner's next Dispose reports them.
// The zero value is ready to use.
type Deferred struct {
	mu  sync.Mutex
	err error
}

// Add records err. Nil errors are ignored.
func (d *Deferred) Add(err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	d.err = errors.Join(d.err, err)
	d.mu.Unlock()
}

// Take returns the recorded errors joined with errs and clears them.
func (d *Deferred) Take(errs ...error) error {
	d.mu.Lock()
	err := d.err
	d.err = nil
	d.mu.Unlock()
	return errors.Join(append([]error{err}, errs...)...)
}
