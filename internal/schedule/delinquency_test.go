package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayDays(t *testing.T) {
	due := day(2024, time.April, 10)
	early := paid("early", PaymentTypeMonthly, day(2024, time.April, 7), "100")
	late := paid("late", PaymentTypeMonthly, day(2024, time.April, 25), "100")

	tests := []struct {
		name  string
		slot  ScheduleSlot
		today time.Time
		want  int
	}{
		{"paid late", ScheduleSlot{DueDate: due, IsPaid: true, MatchedPayment: &late}, day(2024, time.June, 1), 15},
		{"paid early is negative", ScheduleSlot{DueDate: due, IsPaid: true, MatchedPayment: &early}, day(2024, time.June, 1), -3},
		{"paid late but before today", ScheduleSlot{DueDate: due, IsPaid: true, MatchedPayment: &late}, day(2024, time.April, 1), 15},
		{"unpaid and overdue", ScheduleSlot{DueDate: due}, day(2024, time.April, 11), 1},
		{"unpaid due today", ScheduleSlot{DueDate: due}, due, 0},
		{"unpaid not yet due", ScheduleSlot{DueDate: due}, day(2024, time.March, 1), 0},
		{"unpaid across a leap day", ScheduleSlot{DueDate: day(2024, time.February, 28)}, day(2024, time.March, 1), 2},
		{"unpaid for centuries", ScheduleSlot{DueDate: day(2024, time.January, 10)}, day(2400, time.January, 10), 137331},
		{"time of day is ignored", ScheduleSlot{DueDate: due}, time.Date(2024, time.April, 12, 23, 59, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DelayDays(tt.slot, tt.today))
		})
	}
}

func TestScheduleSlot_IsOverdue(t *testing.T) {
	assert.True(t, ScheduleSlot{DelayDays: 3}.IsOverdue())
	assert.False(t, ScheduleSlot{DelayDays: 0}.IsOverdue())
	assert.False(t, ScheduleSlot{IsPaid: true, DelayDays: 3}.IsOverdue())
}
