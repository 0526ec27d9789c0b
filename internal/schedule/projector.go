package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Project builds the ordered obligations for a contract.
//
// A non-positive period is the documented "no schedule yet" state and yields
// an empty projection. A contract without a start date cannot be projected
// either; that case is reported as a diagnostic.
func Project(terms ContractTerms) ([]Obligation, []Diagnostic) {
	if terms.Period <= 0 {
		return []Obligation{}, nil
	}

	var diags []Diagnostic
	if terms.Period > MaxPeriod {
		diags = append(diags, Diagnostic{
			Kind:    DiagnosticPeriodOutOfRange,
			Field:   "period",
			Message: fmt.Sprintf("period %d exceeds %d months; no schedule projected", terms.Period, MaxPeriod),
		})
		return []Obligation{}, diags
	}
	if terms.StartDate.IsZero() {
		diags = append(diags, Diagnostic{
			Kind:    DiagnosticMalformedDate,
			Field:   "startDate",
			Message: "contract start date is missing or unparseable; no schedule projected",
		})
		return []Obligation{}, diags
	}

	start := DateOnly(terms.StartDate)
	hasInitial := terms.HasInitialSlot()

	firstMonthly, adjusted := firstMonthlyDueDate(terms, start, hasInitial)
	if adjusted != nil {
		diags = append(diags, *adjusted)
	}

	size := terms.Period
	if hasInitial {
		size++
	}
	out := make([]Obligation, 0, size)

	if hasInitial {
		out = append(out, Obligation{
			Index:           0,
			DueDate:         start,
			ScheduledAmount: terms.InitialPayment,
			IsInitial:       true,
		})
	}

	monthly := nonNegative(terms.MonthlyPayment)
	for k := 1; k <= terms.Period; k++ {
		out = append(out, Obligation{
			Index:           k,
			DueDate:         AddMonths(firstMonthly, k-1),
			ScheduledAmount: monthly,
		})
	}

	return out, diags
}

// firstMonthlyDueDate resolves the due date of slot 1. An explicit date that
// would not come strictly after the initial slot is replaced by the default,
// keeping due dates strictly increasing.
func firstMonthlyDueDate(terms ContractTerms, start time.Time, hasInitial bool) (time.Time, *Diagnostic) {
	def := AddMonths(start, 1)
	if terms.InitialPaymentDueDate == nil {
		return def, nil
	}
	if terms.InitialPaymentDueDate.IsZero() {
		return def, &Diagnostic{
			Kind:    DiagnosticDueDateAdjusted,
			Field:   "initialPaymentDueDate",
			Message: "unparseable first monthly due date; using start date + 1 month",
		}
	}
	due := DateOnly(*terms.InitialPaymentDueDate)
	if hasInitial && !due.After(start) {
		return def, &Diagnostic{
			Kind:    DiagnosticDueDateAdjusted,
			Field:   "initialPaymentDueDate",
			Message: "first monthly due date is not after the initial payment date; using start date + 1 month",
		}
	}
	return due, nil
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
