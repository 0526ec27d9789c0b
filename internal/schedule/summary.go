package schedule

import "github.com/shopspring/decimal"

// Summarize rolls the slots up into the totals shown with the schedule.
// Server-provided totals on the contract take precedence over derived ones.
func Summarize(terms ContractTerms, slots []ScheduleSlot) Summary {
	scheduled := decimal.Zero
	paid := decimal.Zero
	for _, s := range slots {
		scheduled = scheduled.Add(s.ScheduledAmount)
		if s.IsPaid {
			paid = paid.Add(s.ActualPaidAmount)
		}
	}

	if terms.TotalPrice != nil {
		scheduled = *terms.TotalPrice
	}

	remaining := nonNegative(scheduled.Sub(paid))
	if terms.RemainingDebt != nil {
		remaining = *terms.RemainingDebt
	}

	return Summary{
		TotalScheduled: scheduled,
		TotalPaid:      paid,
		RemainingDebt:  remaining,
	}
}
