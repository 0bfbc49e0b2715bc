package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger computes when the daily cycle fires next.
type Trigger struct {
	spec     string
	schedule cron.Schedule
}

// NewDailyTrigger returns a trigger firing every day at hour:minute in the
// location of the time passed to Next.
func NewDailyTrigger(hour, minute int) (*Trigger, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid trigger time %02d:%02d", hour, minute)
	}
	return NewTrigger(fmt.Sprintf("%d %d * * *", minute, hour))
}

// NewTrigger returns a trigger for a standard five-field cron expression.
func NewTrigger(spec string) (*Trigger, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return &Trigger{spec: spec, schedule: schedule}, nil
}

// Spec returns the cron expression of the trigger.
func (t *Trigger) Spec() string {
	return t.spec
}

// Next returns the first fire time strictly after now. When the trigger time
// for today has been reached or passed, that is the same time tomorrow.
func (t *Trigger) Next(now time.Time) time.Time {
	return t.schedule.Next(now)
}
