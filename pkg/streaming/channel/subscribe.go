package channel

import (
	"sync"
	"sync/atomic"

	"github.com/vnykmshr/proxyflow/pkg/common/validation"
	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// BackpressureStrategy defines how a subscription handles a full buffer.
type BackpressureStrategy int

const (
	// Block waits until the consumer makes room.
	Block BackpressureStrategy = iota

	// Drop discards the newest value.
	Drop

	// DropOldest discards the oldest buffered value to make room.
	DropOldest
)

// Config holds configuration for Subscribe.
type Config struct {
	// BufferSize is the capacity of the values channel.
	BufferSize int

	// Strategy defines how a full buffer is handled.
	Strategy BackpressureStrategy
}

// DefaultConfig returns a blocking subscription with a 64 value buffer.
func DefaultConfig() Config {
	return Config{BufferSize: 64, Strategy: Block}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Strategy == Block {
		return validation.ValidateNonNegative("channel", "buffer_size", int64(c.BufferSize))
	}
	return validation.ValidatePositive("channel", "buffer_size", c.BufferSize)
}

// Subscription delivers the values of a running stream on a channel.
type Subscription[T any] struct {
	cfg     Config
	values  chan T
	closing chan struct{}

	mu     sync.Mutex
	closed bool
	err    error

	dropped  atomic.Int64
	upstream disposable.Slot
	once     sync.Once
}

// Subscribe runs s under sch. An invalid cfg is replaced by DefaultConfig.
func Subscribe[T any](s stream.Stream[T], sch scheduler.Scheduler, cfg Config) *Subscription[T] {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	sub := &Subscription[T]{
		cfg:     cfg,
		values:  make(chan T, cfg.BufferSize),
		closing: make(chan struct{}),
	}
	sub.upstream.Swap(s.Run(sub, sch))
	return sub
}

// Values returns the channel values are delivered on. It is closed when the
// stream ends or fails, or when the subscription is disposed.
func (s *Subscription[T]) Values() <-chan T {
	return s.values
}

// Err returns the stream's error once Values is closed.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Dropped returns the number of values discarded by Drop or DropOldest.
func (s *Subscription[T]) Dropped() int64 {
	return s.dropped.Load()
}

// Event implements stream.Sink.
func (s *Subscription[T]) Event(_ scheduler.Time, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	switch s.cfg.Strategy {
	case Drop:
		select {
		case s.values <- v:
		default:
			s.dropped.Add(1)
		}
	case DropOldest:
		for {
			select {
			case s.values <- v:
				return
			default:
			}
			select {
			case <-s.values:
				s.dropped.Add(1)
			default:
			}
		}
	default:
		select {
		case s.values <- v:
		case <-s.closing:
		}
	}
}

// Error implements stream.Sink.
func (s *Subscription[T]) Error(_ scheduler.Time, err error) {
	s.close(err)
}

// End implements stream.Sink.
func (s *Subscription[T]) End(scheduler.Time) {
	s.close(nil)
}

func (s *Subscription[T]) close(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.values)
}

// Dispose cancels the stream and closes Values.
func (s *Subscription[T]) Dispose() error {
	s.once.Do(func() { close(s.closing) })
	s.close(nil)
	return s.upstream.Dispose()
}
