package proxy

import (
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/proxyflow/pkg/common/validation"
	pflog "github.com/vnykmshr/proxyflow/pkg/log"
	"github.com/vnykmshr/proxyflow/pkg/metrics"
)

// Config holds configuration for a ProxyStream.
type Config struct {
	// Name identifies the proxy in errors, log lines and metric labels.
	Name string

	// Logger receives lifecycle events at debug level. Defaults to the
	// shared logger.
	Logger *logrus.Entry

	// Metrics configures Prometheus instrumentation. Disabled by default.
	Metrics metrics.Config
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{Name: "proxy"}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	return validation.ValidateNotEmpty("proxy", "name", c.Name)
}

func (c Config) logger() *logrus.Entry {
	l := c.Logger
	if l == nil {
		l = pflog.WithComponent("proxy")
	}
	return l.WithField("proxy", c.Name)
}
