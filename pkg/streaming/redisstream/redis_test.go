package redisstream

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/proxyflow/internal/testutil"
	"github.com/vnykmshr/proxyflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/proxyflow/pkg/streaming/stream"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		t.Skip("Redis not available, skipping integration test")
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSource_Redis(t *testing.T) {
	rdb := redisClient(t)
	channel := fmt.Sprintf("proxyflow-test-%d", time.Now().UnixNano())

	src, err := New(Config{Client: rdb, Channels: []string{channel}, EndPayload: "done"})
	testutil.AssertNoError(t, err)

	sched := scheduler.New()
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	go func() {
		for {
			n, err := rdb.PubSubNumSub(ctx, channel).Result()
			if err != nil || ctx.Err() != nil {
				return
			}
			if n[channel] > 0 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		for _, p := range []string{"a", "b", "done"} {
			rdb.Publish(ctx, channel, p)
		}
	}()

	values, err := stream.Collect(ctx, stream.Stream[string](src), sched)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, values, []string{"a", "b"})
}

func TestSource_RedisPattern(t *testing.T) {
	rdb := redisClient(t)
	prefix := fmt.Sprintf("proxyflow-pattern-%d", time.Now().UnixNano())

	src, err := New(Config{Client: rdb, Channels: []string{prefix + ".*"}, Pattern: true, EndPayload: "done"})
	testutil.AssertNoError(t, err)

	sched := scheduler.New()
	testutil.AssertNoError(t, sched.Start())
	defer func() { <-sched.Stop() }()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	go func() {
		for ctx.Err() == nil {
			n, err := rdb.PubSubNumPat(ctx).Result()
			if err != nil {
				return
			}
			if n > 0 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		rdb.Publish(ctx, prefix+".eu", "x")
		rdb.Publish(ctx, prefix+".us", "done")
	}()

	values, err := stream.Collect(ctx, stream.Stream[string](src), sched)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, values, []string{"x"})
}
