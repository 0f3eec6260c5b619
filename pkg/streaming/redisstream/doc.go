/*
Package redisstream exposes a Redis Pub/Sub subscription as a stream.

Each Run opens its own subscription, so a Source is usually wrapped in
multicast.Multicast or attached to a proxy when several consumers should share
one connection. Messages are received on a background goroutine and delivered
to the sink through the scheduler, which keeps delivery on the scheduler's
dispatch loop.

	src, err := redisstream.New(redisstream.Config{
		Client:   rdb,
		Channels: []string{"orders"},
	})
	if err != nil {
		return err
	}
	_, err = proxy.Attach(sink, src)

A failed subscription is delivered to the sink as an *errors.OperationError.
Setting EndPayload turns a sentinel message into End.
*/
package redisstream
