/*
Package channel bridges Go channels and streams.

FromChan turns a receive-only channel into a stream that ends when the channel
is closed. Subscribe goes the other way: it runs a stream and hands its values
out on a buffered channel, applying a BackpressureStrategy when the consumer
falls behind.

	sub := channel.Subscribe(s, sched, channel.DefaultConfig())
	defer sub.Dispose()

	for v := range sub.Values() {
		fmt.Println(v)
	}
	if err := sub.Err(); err != nil {
		return err
	}

Block stalls the scheduler's dispatch loop while the buffer is full, which
delays every stream sharing that scheduler; Drop and DropOldest never block.
*/
package channel
