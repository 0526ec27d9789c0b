package schedule

import "time"

// DelayDays computes how late a slot is.
//
// A paid slot compares the matched payment's nominal date with the due date,
// so early payments come out negative. An unpaid slot whose due date has
// passed counts the days up to today (always at least one). Unpaid slots due
// today or later are zero.
func DelayDays(slot ScheduleSlot, today time.Time) int {
	if slot.IsPaid && slot.MatchedPayment != nil {
		return DaysBetween(slot.DueDate, slot.MatchedPayment.Date)
	}
	due, now := DateOnly(slot.DueDate), DateOnly(today)
	if due.Before(now) {
		return DaysBetween(due, now)
	}
	return 0
}
