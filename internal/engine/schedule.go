package engine

import (
	"time"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

// ScheduleCalculator turns an automation's configured delay into the time an
// action should run. All timestamps are UTC.
type ScheduleCalculator struct {
	now func() time.Time
}

// NewScheduleCalculator creates a calculator using the real clock
func NewScheduleCalculator() *ScheduleCalculator {
	return &ScheduleCalculator{now: func() time.Time { return time.Now().UTC() }}
}

// NewScheduleCalculatorAt creates a calculator with an injected clock
func NewScheduleCalculatorAt(now func() time.Time) *ScheduleCalculator {
	return &ScheduleCalculator{now: now}
}

// Compute returns the run time for the given delay and whether the action
// should execute immediately. A zero delay means now; unknown units are
// treated as minutes.
func (s *ScheduleCalculator) Compute(delayAmount int, delayUnit models.DelayUnit) (time.Time, bool) {
	now := s.now()
	if delayAmount <= 0 {
		return now, true
	}

	switch delayUnit {
	case models.DelayHours:
		return now.Add(time.Duration(delayAmount) * time.Hour), false
	case models.DelayDays:
		return now.AddDate(0, 0, delayAmount), false
	default:
		return now.Add(time.Duration(delayAmount) * time.Minute), false
	}
}
