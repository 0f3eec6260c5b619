package redisstream

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	pferrors "github.com/vnykmshr/proxyflow/pkg/common/errors"
	"github.com/vnykmshr/proxyflow/pkg/disposable"
	pflog "github.com/vnykmshr/proxyflow/pkg/log"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// subscription is what the receive loop needs from a Pub/Sub connection.
type subscription struct {
	messages <-chan *redis.Message
	close    func() error
}

type subscribeFunc func(ctx context.Context) (subscription, error)

// Source is a stream of message payloads published on Redis channels.
type Source struct {
	cfg       Config
	log       *logrus.Entry
	subscribe subscribeFunc
}

var _ stream.Stream[string] = (*Source)(nil)

// New creates a Source. Unset fields of cfg take their DefaultConfig values.
func New(cfg Config) (*Source, error) {
	if cfg.ReceiveTimeout == 0 {
		cfg.ReceiveTimeout = DefaultConfig().ReceiveTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := cfg.Logger
	if l == nil {
		l = pflog.WithComponent("redisstream")
	}
	s := &Source{
		cfg: cfg,
		log: l.WithField("channels", strings.Join(cfg.Channels, ",")),
	}
	s.subscribe = s.redisSubscribe
	return s, nil
}

func (s *Source) redisSubscribe(ctx context.Context) (subscription, error) {
	var ps *redis.PubSub
	if s.cfg.Pattern {
		ps = s.cfg.Client.PSubscribe(ctx, s.cfg.Channels...)
	} else {
		ps = s.cfg.Client.Subscribe(ctx, s.cfg.Channels...)
	}

	rctx, cancel := context.WithTimeout(ctx, s.cfg.ReceiveTimeout)
	defer cancel()
	if _, err := ps.Receive(rctx); err != nil {
		_ = ps.Close()
		return subscription{}, err
	}
	return subscription{messages: ps.Channel(), close: ps.Close}, nil
}

// Run implements stream.Stream. It subscribes on a background goroutine and
// returns immediately.
func (s *Source) Run(sink stream.Sink[string], sch scheduler.Scheduler) disposable.Disposable {
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		source: s,
		sink:   sink,
		sched:  sch,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.active.Store(true)
	go r.loop(ctx)
	return r
}

type run struct {
	source *Source
	sink   stream.Sink[string]
	sched  scheduler.Scheduler
	active atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (r *run) loop(ctx context.Context) {
	defer close(r.done)

	sub, err := r.source.subscribe(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.source.log.WithError(err).Warn("subscribe failed")
			r.deliver(func(t scheduler.Time) {
				r.fail(t, pferrors.NewOperationError("redisstream", "Subscribe", err).
					WithContext("channels="+strings.Join(r.source.cfg.Channels, ",")))
			})
		}
		return
	}
	defer func() {
		if err := sub.close(); err != nil {
			r.source.log.WithError(err).Debug("closing subscription")
		}
	}()
	r.source.log.Debug("subscribed")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.messages:
			if !ok {
				return
			}
			if end := r.source.cfg.EndPayload; end != "" && msg.Payload == end {
				r.deliver(r.end)
				return
			}
			payload := msg.Payload
			r.deliver(func(t scheduler.Time) { r.sink.Event(t, payload) })
		}
	}
}

// deliver runs fn on the scheduler unless the run has been disposed or has
// terminated by then.
func (r *run) deliver(fn func(t scheduler.Time)) {
	scheduler.Asap(r.sched, &delivery{run: r, fn: fn})
}

func (r *run) end(t scheduler.Time) {
	if r.active.CompareAndSwap(true, false) {
		r.sink.End(t)
	}
}

func (r *run) fail(t scheduler.Time, err error) {
	if r.active.CompareAndSwap(true, false) {
		r.sink.Error(t, err)
	}
}

// Dispose stops the subscription and waits for the receive loop to exit.
func (r *run) Dispose() error {
	r.once.Do(func() {
		r.active.Store(false)
		r.cancel()
	})
	<-r.done
	return nil
}

type delivery struct {
	run *run
	fn  func(t scheduler.Time)
}

func (d *delivery) Run(t scheduler.Time) {
	if d.run.active.Load() {
		d.fn(t)
	}
}

func (d *delivery) Error(t scheduler.Time, err error) {
	d.run.fail(t, err)
}

func (d *delivery) Dispose() error { return nil }
