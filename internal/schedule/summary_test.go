package schedule

import "testing"

func TestSummarize(t *testing.T) {
	slots := []ScheduleSlot{
		{ScheduledAmount: dec("50"), IsPaid: true, ActualPaidAmount: dec("50")},
		{ScheduledAmount: dec("100"), IsPaid: true, ActualPaidAmount: dec("120")},
		{ScheduledAmount: dec("100"), ActualPaidAmount: dec("0")},
	}

	t.Run("derived", func(t *testing.T) {
		s := Summarize(ContractTerms{}, slots)
		assertAmount(t, "250", s.TotalScheduled)
		assertAmount(t, "170", s.TotalPaid)
		assertAmount(t, "80", s.RemainingDebt)
	})

	t.Run("server totals win", func(t *testing.T) {
		terms := ContractTerms{TotalPrice: decp("1000"), RemainingDebt: decp("812.5")}
		s := Summarize(terms, slots)
		assertAmount(t, "1000", s.TotalScheduled)
		assertAmount(t, "170", s.TotalPaid)
		assertAmount(t, "812.5", s.RemainingDebt)
	})

	t.Run("total price without remaining debt", func(t *testing.T) {
		s := Summarize(ContractTerms{TotalPrice: decp("400")}, slots)
		assertAmount(t, "230", s.RemainingDebt)
	})

	t.Run("overpaid never goes negative", func(t *testing.T) {
		s := Summarize(ContractTerms{TotalPrice: decp("100")}, slots)
		assertAmount(t, "0", s.RemainingDebt)
	})

	t.Run("empty", func(t *testing.T) {
		s := Summarize(ContractTerms{}, nil)
		assertAmount(t, "0", s.TotalScheduled)
		assertAmount(t, "0", s.TotalPaid)
		assertAmount(t, "0", s.RemainingDebt)
	})
}
