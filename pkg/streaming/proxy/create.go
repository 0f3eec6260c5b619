package proxy

import (
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// Sink is the producer side of a proxy: events pushed into it reach every
// subscriber, and Attach supplies a source that does the pushing.
type Sink[A any] interface {
	stream.Sink[A]
	Attach(s stream.Stream[A]) (stream.Stream[A], error)
}

// Create returns the producer and consumer sides of a new proxy.
func Create[A any]() (Sink[A], stream.Stream[A]) {
	p := New[A]()
	return p, p
}

// CreateWithConfig is Create with custom configuration.
func CreateWithConfig[A any](cfg Config) (Sink[A], stream.Stream[A], error) {
	p, err := NewWithConfig[A](cfg)
	if err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

// Attach attaches s to the proxy behind sink.
func Attach[A any](sink Sink[A], s stream.Stream[A]) (stream.Stream[A], error) {
	return sink.Attach(s)
}
