package redisstream

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/proxyflow/pkg/common/validation"
)

// Config holds configuration for a Redis Pub/Sub source.
type Config struct {
	// Client is the Redis connection used for subscriptions.
	Client redis.UniversalClient

	// Channels are the channels, or patterns when Pattern is set, to
	// subscribe to.
	Channels []string

	// Pattern subscribes with PSUBSCRIBE instead of SUBSCRIBE.
	Pattern bool

	// EndPayload, when non-empty, ends the stream on a message whose payload
	// equals it. The sentinel itself is not emitted.
	EndPayload string

	// ReceiveTimeout bounds the wait for the subscription confirmation.
	ReceiveTimeout time.Duration

	// Logger receives subscription lifecycle events. Defaults to the shared
	// logger.
	Logger *logrus.Entry
}

// DefaultConfig returns a configuration with default timeouts. Client and
// Channels must still be set.
func DefaultConfig() Config {
	return Config{
		ReceiveTimeout: 5 * time.Second,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if err := validation.ValidateNotNil("redisstream", "client", c.Client); err != nil {
		return err
	}
	if err := validation.ValidatePositive("redisstream", "channels", len(c.Channels)); err != nil {
		return err
	}
	for _, ch := range c.Channels {
		if err := validation.ValidateNotEmpty("redisstream", "channel", ch); err != nil {
			return err
		}
	}
	return validation.ValidatePositiveDuration("redisstream", "receive_timeout", c.ReceiveTimeout)
}
