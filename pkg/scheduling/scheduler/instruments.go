package scheduler

import (
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/proxyflow/pkg/metrics"
)

// instruments records scheduler activity. A nil registry disables metrics.
type instruments struct {
	name     string
	registry *metrics.Registry
	logger   *logrus.Entry
}

func (in *instruments) scheduled() {
	if in.registry != nil {
		in.registry.SchedulerTasksScheduled.WithLabelValues(in.name).Inc()
	}
}

func (in *instruments) ran(st *ScheduledTask, panicked bool) {
	if panicked {
		in.logger.WithField("time", st.time).Error("recovered panic in scheduled task")
	}
	if in.registry == nil {
		return
	}
	in.registry.SchedulerTasksRun.WithLabelValues(in.name).Inc()
	if panicked {
		in.registry.SchedulerTaskPanics.WithLabelValues(in.name).Inc()
	}
}

func (in *instruments) pending(n int) {
	if in.registry != nil {
		in.registry.SchedulerPending.WithLabelValues(in.name).Set(float64(n))
	}
}
