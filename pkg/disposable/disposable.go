// Package disposable provides resource handles that release a subscription or
// scheduled task exactly once.
package disposable

import (
	"errors"
	"sync"
)

// Disposable releases a resource. Dispose must be idempotent: calls after the
// first have no effect and return nil.
type Disposable interface {
	Dispose() error
}

type none struct{}

func (none) Dispose() error { return nil }

// None returns a Disposable that does nothing.
func None() Disposable {
	return none{}
}

// IsNone reports whether d is the no-op disposable returned by None.
func IsNone(d Disposable) bool {
	_, ok := d.(none)
	return ok
}

// once runs its release function at most once.
type once struct {
	once    sync.Once
	release func() error
	err     error
}

func (o *once) Dispose() error {
	var err error
	ran := false
	o.once.Do(func() {
		ran = true
		o.err = o.release()
		err = o.err
	})
	if !ran {
		return nil
	}
	return err
}

// Func wraps release in a Disposable that calls it at most once.
func Func(release func() error) Disposable {
	if release == nil {
		return None()
	}
	return &once{release: release}
}

// FromFunc adapts a release function that cannot fail.
func FromFunc(release func()) Disposable {
	if release == nil {
		return None()
	}
	return Func(func() error {
		release()
		return nil
	})
}

// All combines disposables into one. Disposing it disposes every member,
// even when some fail, and joins their errors.
func All(ds ...Disposable) Disposable {
	members := make([]Disposable, 0, len(ds))
	for _, d := range ds {
		if d != nil && !IsNone(d) {
			members = append(members, d)
		}
	}
	if len(members) == 0 {
		return None()
	}
	return Func(func() error {
		return disposeAll(members)
	})
}

func disposeAll(ds []Disposable) error {
	var errs []error
	for _, d := range ds {
		if err := d.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
