package proxy_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vnykmshr/proxyflow/internal/streamtest"
	"github.com/vnykmshr/proxyflow/internal/testutil"
	pferrors "github.com/vnykmshr/proxyflow/pkg/common/errors"
	"github.com/vnykmshr/proxyflow/pkg/disposable"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/proxy"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

// timed emits each value at the logical time equal to itself, then ends.
func timed(values ...int) stream.Stream[int] {
	streams := make([]stream.Stream[int], len(values))
	for i, x := range values {
		streams[i] = stream.At(scheduler.Time(x), x)
	}
	return stream.Merge(streams...)
}

func failAfter(err error, delay scheduler.Time, v int) stream.Stream[int] {
	return stream.ContinueWith(func() stream.Stream[int] {
		return stream.ThrowError[int](err)
	}, stream.At(delay, v))
}

func TestProxy_AttachOrderIndependent(t *testing.T) {
	tests := []struct {
		name        string
		attachFirst bool
	}{
		{"subscribe then attach", false},
		{"attach then subscribe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := scheduler.NewVirtual()
			sink, s := proxy.Create[int]()
			r := streamtest.NewRecorder[int]()

			if tt.attachFirst {
				_, err := proxy.Attach(sink, timed(0, 1, 2))
				testutil.AssertNoError(t, err)
				s.Run(r, v)
			} else {
				s.Run(r, v)
				_, err := proxy.Attach(sink, timed(0, 1, 2))
				testutil.AssertNoError(t, err)
			}

			v.Advance(10)

			testutil.AssertSliceEqual(t, r.Values(), []int{0, 1, 2})
			testutil.AssertSliceEqual(t, r.Times(), []scheduler.Time{0, 1, 2})
			testutil.AssertEqual(t, r.Ended(), true)
			testutil.AssertEqual(t, r.EndTime(), scheduler.Time(2))
		})
	}
}

func TestProxy_AttachReturnsSource(t *testing.T) {
	p := proxy.New[int]()
	src := streamtest.NewCounting(stream.Never[int]())

	got, err := p.Attach(src)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, stream.Stream[int](src))
}

func TestProxy_ErrorPropagatesToEverySubscriber(t *testing.T) {
	boom := errors.New("sample error")
	v := scheduler.NewVirtual()
	sink, s := proxy.Create[int]()

	a := streamtest.NewRecorder[int]()
	b := streamtest.NewRecorder[int]()
	s.Run(a, v)
	s.Run(b, v)

	_, err := proxy.Attach(sink, failAfter(boom, 10, 5))
	testutil.AssertNoError(t, err)
	v.Advance(20)

	for _, r := range []*streamtest.Recorder[int]{a, b} {
		testutil.AssertSliceEqual(t, r.Values(), []int{5})
		testutil.AssertEqual(t, r.Err(), boom)
		testutil.AssertEqual(t, r.EndTime(), scheduler.Time(10))
		testutil.AssertEqual(t, r.Terminations(), 1)
	}
}

func TestProxy_ErrorAttachedBeforeSubscriber(t *testing.T) {
	boom := errors.New("sample error")
	v := scheduler.NewVirtual()
	sink, s := proxy.Create[int]()

	_, err := proxy.Attach(sink, failAfter(boom, 10, 5))
	testutil.AssertNoError(t, err)

	r := streamtest.NewRecorder[int]()
	s.Run(r, v)
	v.Advance(20)

	testutil.AssertSliceEqual(t, r.Values(), []int{5})
	testutil.AssertErrorIs(t, r.Err(), boom)
}

func TestProxy_ErrorDetachesBeforeNotifying(t *testing.T) {
	boom := errors.New("boom")
	v := scheduler.NewVirtual()
	p := proxy.New[int]()

	var seen proxy.State
	p.Run(stream.SinkFuncs[int]{
		OnError: func(scheduler.Time, error) { seen = p.State() },
	}, v)
	_, err := p.Attach(stream.ThrowError[int](boom))
	testutil.AssertNoError(t, err)
	v.Advance(0)

	testutil.AssertEqual(t, seen, proxy.Unattached)
}

func TestProxy_Exclusivity(t *testing.T) {
	t.Run("while idle", func(t *testing.T) {
		p, err := proxy.NewWithConfig[int](proxy.Config{Name: "orders"})
		testutil.AssertNoError(t, err)
		_, err = p.Attach(stream.Never[int]())
		testutil.AssertNoError(t, err)

		got, err := p.Attach(stream.Never[int]())
		testutil.AssertErrorIs(t, err, pferrors.ErrAlreadyAttached)
		testutil.AssertEqual(t, pferrors.IsExclusivityError(err), true)
		testutil.AssertEqual(t, err.Error(), `proxy "orders": can only attach one stream`)
		testutil.AssertEqual(t, got, nil)
		testutil.AssertEqual(t, p.State(), proxy.AttachedIdle)
	})

	t.Run("while running", func(t *testing.T) {
		v := scheduler.NewVirtual()
		p := proxy.New[int]()
		first := streamtest.NewCounting(stream.Periodic(10, 1))
		second := streamtest.NewCounting(stream.Periodic(10, 2))
		r := streamtest.NewRecorder[int]()

		p.Run(r, v)
		_, err := p.Attach(first)
		testutil.AssertNoError(t, err)

		_, err = p.Attach(second)
		testutil.AssertEqual(t, pferrors.IsExclusivityError(err), true)
		testutil.AssertEqual(t, p.State(), proxy.AttachedRunning)

		v.Advance(10)
		testutil.AssertSliceEqual(t, r.Values(), []int{1, 1})
		testutil.AssertEqual(t, first.Runs(), 1)
		testutil.AssertEqual(t, first.Disposals(), 0)
		testutil.AssertEqual(t, second.Runs(), 0)
	})
}

func TestProxy_ReattachAfterCompletion(t *testing.T) {
	v := scheduler.NewVirtual()
	sink, s := proxy.Create[int]()
	origin := streamtest.NewCounting(timed(10, 11, 12))

	drain := func() *streamtest.Recorder[int] {
		r := streamtest.NewRecorder[int]()
		var d disposable.Disposable
		r.OnTerminate(func() { _ = d.Dispose() })
		d = s.Run(r, v)
		v.Advance(100)
		return r
	}

	_, err := proxy.Attach(sink, origin)
	testutil.AssertNoError(t, err)
	first := drain()
	testutil.AssertSliceEqual(t, first.Values(), []int{10, 11, 12})
	testutil.AssertEqual(t, first.Ended(), true)

	_, err = proxy.Attach(sink, origin)
	testutil.AssertNoError(t, err)
	second := drain()
	testutil.AssertSliceEqual(t, second.Values(), []int{10, 11, 12})
	testutil.AssertSliceEqual(t, second.Times(), []scheduler.Time{110, 111, 112})

	testutil.AssertEqual(t, origin.Runs(), 2)
	testutil.AssertEqual(t, origin.Disposals(), 2)
}

func TestProxy_ReattachAfterError(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	r := streamtest.NewRecorder[int]()
	p.Run(r, v)

	_, err := p.Attach(stream.ThrowError[int](errors.New("first")))
	testutil.AssertNoError(t, err)
	v.Advance(0)
	testutil.AssertEqual(t, p.State(), proxy.Unattached)

	late := streamtest.NewRecorder[int]()
	p.Run(late, v)
	_, err = p.Attach(stream.At(5, 7))
	testutil.AssertNoError(t, err)
	v.Advance(10)

	testutil.AssertSliceEqual(t, late.Values(), []int{7})
	testutil.AssertEqual(t, late.Ended(), true)
}

func TestProxy_ReattachFromEndCallback(t *testing.T) {
	v := scheduler.NewVirtual()
	sink, s := proxy.Create[int]()

	var reattachErr error
	r := streamtest.NewRecorder[int]().OnTerminate(func() {
		_, reattachErr = proxy.Attach(sink, stream.At(1, 99))
	})
	s.Run(r, v)

	_, err := proxy.Attach(sink, stream.At(1, 1))
	testutil.AssertNoError(t, err)
	v.Advance(5)

	testutil.AssertNoError(t, reattachErr)
	testutil.AssertSliceEqual(t, r.Values(), []int{1, 99})
	testutil.AssertSliceEqual(t, r.Times(), []scheduler.Time{1, 2})
}

func TestProxy_RefCountedTeardown(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	source := streamtest.NewCounting(stream.Periodic(10, 1))

	recorders := make([]*streamtest.Recorder[int], 3)
	handles := make([]disposable.Disposable, 3)
	for i := range recorders {
		recorders[i] = streamtest.NewRecorder[int]()
		handles[i] = p.Run(recorders[i], v)
	}
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, p.Subscribers(), 3)

	v.Advance(0)
	testutil.AssertNoError(t, handles[0].Dispose())
	testutil.AssertNoError(t, handles[1].Dispose())
	testutil.AssertEqual(t, source.Disposals(), 0)
	testutil.AssertEqual(t, p.State(), proxy.AttachedRunning)

	v.Advance(20)
	testutil.AssertEqual(t, len(recorders[0].Values()), 1)
	testutil.AssertEqual(t, len(recorders[2].Values()), 3)

	testutil.AssertNoError(t, handles[2].Dispose())
	testutil.AssertEqual(t, source.Disposals(), 1)
	testutil.AssertEqual(t, v.Pending(), 0)
	testutil.AssertEqual(t, p.Subscribers(), 0)
	testutil.AssertEqual(t, p.State(), proxy.AttachedIdle)

	// the still-attached source restarts for the next subscriber
	again := streamtest.NewRecorder[int]()
	p.Run(again, v)
	v.Advance(0)
	testutil.AssertEqual(t, source.Runs(), 2)
	testutil.AssertSliceEqual(t, again.Values(), []int{1})
}

func TestProxy_IdempotentDisposal(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	source := streamtest.NewCounting(stream.Never[int]())

	d := p.Run(streamtest.NewRecorder[int](), v)
	p.Run(streamtest.NewRecorder[int](), v)
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, d.Dispose())
	testutil.AssertNoError(t, d.Dispose())
	testutil.AssertNoError(t, d.Dispose())

	testutil.AssertEqual(t, p.Subscribers(), 1)
	testutil.AssertEqual(t, source.Disposals(), 0)
	testutil.AssertEqual(t, p.State(), proxy.AttachedRunning)
}

func TestProxy_FirstSchedulerStaysAuthoritative(t *testing.T) {
	first := scheduler.NewVirtual()
	second := scheduler.NewVirtual()
	p := proxy.New[int]()

	a := streamtest.NewRecorder[int]()
	b := streamtest.NewRecorder[int]()
	p.Run(a, first)
	_, err := p.Attach(stream.Periodic(10, 1))
	testutil.AssertNoError(t, err)
	p.Run(b, second)

	testutil.AssertEqual(t, first.Pending(), 1)
	testutil.AssertEqual(t, second.Pending(), 0)

	first.Advance(10)
	testutil.AssertSliceEqual(t, b.Times(), []scheduler.Time{0, 10})
}

func TestProxy_DisposesHandleOfSourceThatEndedDuringRun(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	handle := testutil.NewMockDisposable(nil)
	source := stream.Func[int](func(sink stream.Sink[int], s scheduler.Scheduler) disposable.Disposable {
		sink.Event(s.Now(), 1)
		sink.End(s.Now())
		return handle
	})

	r := streamtest.NewRecorder[int]()
	p.Run(r, v)
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)

	testutil.AssertSliceEqual(t, r.Values(), []int{1})
	testutil.AssertEqual(t, r.Ended(), true)
	testutil.AssertEqual(t, handle.Calls(), 1)
	testutil.AssertEqual(t, p.State(), proxy.Unattached)
}

func TestProxy_DisposeReleasesUpstream(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	source := streamtest.NewCounting(stream.Periodic(10, 1))
	r := streamtest.NewRecorder[int]()

	d := p.Run(r, v)
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, p.Dispose())
	testutil.AssertNoError(t, p.Dispose())
	testutil.AssertEqual(t, source.Disposals(), 1)
	testutil.AssertEqual(t, p.Subscribers(), 0)
	testutil.AssertEqual(t, p.State(), proxy.AttachedIdle)

	v.Advance(20)
	testutil.AssertEqual(t, len(r.Values()), 0)
	testutil.AssertNoError(t, d.Dispose())
	testutil.AssertEqual(t, source.Disposals(), 1)
}

func TestProxy_DisposePropagatesUpstreamError(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	boom := errors.New("close failed")
	source := stream.Func[int](func(stream.Sink[int], scheduler.Scheduler) disposable.Disposable {
		return testutil.NewMockDisposable(boom)
	})

	d := p.Run(streamtest.NewRecorder[int](), v)
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)

	testutil.AssertErrorIs(t, d.Dispose(), boom)
}

func TestProxy_ImperativeEvents(t *testing.T) {
	v := scheduler.NewVirtual()
	sink, s := proxy.Create[string]()
	r := streamtest.NewRecorder[string]()
	s.Run(r, v)

	sink.Event(3, "a")
	sink.Event(4, "b")
	sink.End(5)

	testutil.AssertSliceEqual(t, r.Values(), []string{"a", "b"})
	testutil.AssertEqual(t, r.EndTime(), scheduler.Time(5))
}

func TestProxy_PushedTerminationStopsRunningSource(t *testing.T) {
	tests := []struct {
		name      string
		terminate func(sink proxy.Sink[int])
		wantErr   bool
	}{
		{"end", func(sink proxy.Sink[int]) { sink.End(0) }, false},
		{"error", func(sink proxy.Sink[int]) { sink.Error(0, errors.New("stop")) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := scheduler.NewVirtual()
			sink, s := proxy.Create[int]()
			source := streamtest.NewCounting(stream.Periodic(10, 1))
			r := streamtest.NewRecorder[int]()

			s.Run(r, v)
			_, err := proxy.Attach(sink, source)
			testutil.AssertNoError(t, err)
			v.Advance(0)

			tt.terminate(sink)
			v.Advance(30)

			testutil.AssertSliceEqual(t, r.Values(), []int{1})
			testutil.AssertEqual(t, r.Terminations(), 1)
			testutil.AssertEqual(t, r.Err() != nil, tt.wantErr)
			testutil.AssertEqual(t, source.Disposals(), 1)
			testutil.AssertEqual(t, v.Pending(), 0)
			testutil.AssertEqual(t, sink.(*proxy.ProxyStream[int]).State(), proxy.Unattached)
		})
	}
}

func TestProxy_NilHandleFromSourceThatEndedDuringRun(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	source := stream.Func[int](func(sink stream.Sink[int], s scheduler.Scheduler) disposable.Disposable {
		sink.End(s.Now())
		return nil
	})

	r := streamtest.NewRecorder[int]()
	p.Run(r, v)
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, r.Ended(), true)
	testutil.AssertEqual(t, p.State(), proxy.Unattached)
	testutil.AssertEqual(t, p.Subscribers(), 1)
}

func TestProxy_NoReplayForLateSubscribers(t *testing.T) {
	v := scheduler.NewVirtual()
	p := proxy.New[int]()
	source := streamtest.NewManual[int]()

	early := streamtest.NewRecorder[int]()
	p.Run(early, v)
	_, err := p.Attach(source)
	testutil.AssertNoError(t, err)

	source.Push(1)
	late := streamtest.NewRecorder[int]()
	p.Run(late, v)
	source.Push(2)

	testutil.AssertSliceEqual(t, early.Values(), []int{1, 2})
	testutil.AssertSliceEqual(t, late.Values(), []int{2})
	testutil.AssertEqual(t, source.Runs(), 1)
}

func TestProxy_RealtimeAttachFromAnotherGoroutine(t *testing.T) {
	sched := scheduler.New()
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	sink, s := proxy.Create[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := proxy.Attach(sink, stream.FromSlice([]int{1, 2, 3})); err != nil {
			t.Error(err)
		}
	}()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	values, err := stream.Collect(ctx, s, sched)
	wg.Wait()

	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, values, []int{1, 2, 3})
}

func TestProxy_RunEffectsReturnsUpstreamError(t *testing.T) {
	sched := scheduler.New()
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	boom := errors.New("sample error")
	sink, s := proxy.Create[int]()
	_, err := proxy.Attach(sink, failAfter(boom, 10, 5))
	testutil.AssertNoError(t, err)

	var seen []int
	var mu sync.Mutex
	err = stream.RunEffects(context.Background(), stream.Tap(func(x int) {
		mu.Lock()
		seen = append(seen, x)
		mu.Unlock()
	}, s), sched)

	testutil.AssertEqual(t, err, boom)
	mu.Lock()
	defer mu.Unlock()
	testutil.AssertSliceEqual(t, seen, []int{5})
}
