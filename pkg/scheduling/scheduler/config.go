package scheduler

import (
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/proxyflow/pkg/common/validation"
	pflog "github.com/vnykmshr/proxyflow/pkg/log"
	"github.com/vnykmshr/proxyflow/pkg/metrics"
)

// Config holds scheduler configuration.
type Config struct {
	// Name labels the scheduler's metrics and log lines.
	Name string

	// Clock is the wall clock a Realtime scheduler measures logical time
	// against. Defaults to SystemClock.
	Clock Clock

	// Logger receives recovered task panics. Defaults to the shared logger.
	Logger *logrus.Entry

	// Metrics configures Prometheus instrumentation. Disabled by default.
	Metrics metrics.Config
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{}.withDefaults("default")
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	return validation.ValidateNotEmpty("scheduler", "name", c.Name)
}

func (c Config) withDefaults(name string) Config {
	if c.Name == "" {
		c.Name = name
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = pflog.WithComponent("scheduler")
	}
	c.Logger = c.Logger.WithField("scheduler", c.Name)
	return c
}
