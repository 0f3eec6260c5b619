package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron parses a cron expression. The seconds field is optional and
// descriptors such as "@hourly" or "@every 5s" are accepted.
func ParseCron(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, fmt.Errorf("cron expression cannot be empty")
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}
	return schedule, nil
}

// NextRun returns the next firing of schedule after from, and the logical
// delay until it. A zero time means the schedule never fires again.
func NextRun(schedule cron.Schedule, from time.Time) (time.Time, Time) {
	next := schedule.Next(from)
	if next.IsZero() {
		return next, 0
	}
	return next, FromDuration(next.Sub(from))
}
