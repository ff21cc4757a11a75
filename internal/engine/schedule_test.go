package engine

import (
	"testing"
	"time"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

func TestScheduleCompute(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	calc := NewScheduleCalculatorAt(func() time.Time { return now })

	tests := []struct {
		name          string
		amount        int
		unit          models.DelayUnit
		wantTime      time.Time
		wantImmediate bool
	}{
		{
			name:          "zero delay is immediate",
			amount:        0,
			unit:          models.DelayMinutes,
			wantTime:      now,
			wantImmediate: true,
		},
		{
			name:          "negative delay is immediate",
			amount:        -5,
			unit:          models.DelayMinutes,
			wantTime:      now,
			wantImmediate: true,
		},
		{
			name:     "fifteen minutes",
			amount:   15,
			unit:     models.DelayMinutes,
			wantTime: now.Add(15 * time.Minute),
		},
		{
			name:     "two hours",
			amount:   2,
			unit:     models.DelayHours,
			wantTime: now.Add(2 * time.Hour),
		},
		{
			name:     "three days",
			amount:   3,
			unit:     models.DelayDays,
			wantTime: now.AddDate(0, 0, 3),
		},
		{
			name:     "unknown unit treated as minutes",
			amount:   10,
			unit:     models.DelayUnit("fortnights"),
			wantTime: now.Add(10 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, immediate := calc.Compute(tt.amount, tt.unit)
			if !got.Equal(tt.wantTime) {
				t.Errorf("Compute() time = %v, want %v", got, tt.wantTime)
			}
			if immediate != tt.wantImmediate {
				t.Errorf("Compute() immediate = %v, want %v", immediate, tt.wantImmediate)
			}
		})
	}
}

func TestScheduleComputeUsesUTC(t *testing.T) {
	calc := NewScheduleCalculator()
	got, _ := calc.Compute(1, models.DelayHours)
	if got.Location() != time.UTC {
		t.Errorf("Compute() location = %v, want UTC", got.Location())
	}
}
