package schedule

import (
	"fmt"
	"time"
)

// Build runs the full pipeline: project the obligations, order the payments,
// match them to slots by position, fold the overage cascade, compute delays
// against today and roll up the totals.
//
// Payments without a usable date are left out of matching and reported in
// the diagnostics. Build never fails for business anomalies; shortages,
// overages and late slots are part of the result.
func Build(terms ContractTerms, payments []PaymentRecord, today time.Time) *Schedule {
	obligations, diags := Project(terms)

	sorted := SortPayments(payments)
	usable := make([]*PaymentRecord, 0, len(sorted))
	for _, p := range sorted {
		if p.Date.IsZero() {
			diags = append(diags, Diagnostic{
				Kind:     DiagnosticMalformedDate,
				RecordID: p.ID,
				Field:    "date",
				Message:  "payment date is missing or unparseable; record excluded from matching",
			})
			continue
		}
		usable = append(usable, p)
	}

	matching := Match(obligations, usable)
	slots := Reconcile(obligations, matching)
	for i := range slots {
		slots[i].DelayDays = DelayDays(slots[i], today)
	}

	for _, p := range matching.Unmatched {
		diags = append(diags, Diagnostic{
			Kind:     DiagnosticUnmatchedPayment,
			RecordID: p.ID,
			Field:    "paymentType",
			Message:  fmt.Sprintf("settled %s payment has no open slot", p.PaymentType),
		})
	}

	return &Schedule{
		Slots:       slots,
		Summary:     Summarize(terms, slots),
		Unmatched:   matching.Unmatched,
		Diagnostics: diags,
	}
}
