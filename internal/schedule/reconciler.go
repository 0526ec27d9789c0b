package schedule

import (
	"github.com/shopspring/decimal"
)

// ShortageRuleName identifies the rule that produced a slot's shortage.
type ShortageRuleName string

const (
	ShortageRuleNone            ShortageRuleName = ""
	ShortageRuleRemainingAmount ShortageRuleName = "remaining_amount"
	ShortageRuleActualAmount    ShortageRuleName = "actual_amount"
	ShortageRuleUnderpaidStatus ShortageRuleName = "underpaid_status"
	ShortageRuleRawAmount       ShortageRuleName = "raw_amount"
)

// ShortageInput is what a shortage rule can look at for one paid slot.
type ShortageInput struct {
	Payment   *PaymentRecord
	Scheduled decimal.Decimal
	NeedToPay decimal.Decimal
}

// ShortageRule is one row of the shortage table. Applies selects the rule;
// Amount computes the raw shortage, which is kept only above Tolerance.
type ShortageRule struct {
	Name    ShortageRuleName
	Applies func(in ShortageInput) bool
	Amount  func(in ShortageInput) decimal.Decimal
}

// ShortageRules are evaluated in order and the first applicable rule wins:
// server remaining amount, then settled amount, then UNDERPAID status, then
// the raw amount against the scheduled amount. When remainingAmount and
// actualAmount disagree the remaining amount is reported.
var ShortageRules = []ShortageRule{
	{
		Name: ShortageRuleRemainingAmount,
		Applies: func(in ShortageInput) bool {
			return in.Payment.RemainingAmount != nil && in.Payment.RemainingAmount.GreaterThan(Tolerance)
		},
		Amount: func(in ShortageInput) decimal.Decimal {
			return *in.Payment.RemainingAmount
		},
	},
	{
		Name: ShortageRuleActualAmount,
		Applies: func(in ShortageInput) bool {
			return in.Payment.ActualAmount != nil
		},
		Amount: func(in ShortageInput) decimal.Decimal {
			return in.NeedToPay.Sub(*in.Payment.ActualAmount)
		},
	},
	{
		Name: ShortageRuleUnderpaidStatus,
		Applies: func(in ShortageInput) bool {
			return in.Payment.Status == PaymentStatusUnderpaid
		},
		Amount: func(in ShortageInput) decimal.Decimal {
			return in.NeedToPay.Sub(amountOrZero(in.Payment.Amount))
		},
	},
	{
		Name: ShortageRuleRawAmount,
		Applies: func(in ShortageInput) bool {
			return in.Payment.ActualAmount == nil
		},
		Amount: func(in ShortageInput) decimal.Decimal {
			return in.Scheduled.Sub(amountOrZero(in.Payment.Amount))
		},
	},
}

// DetectShortage runs the shortage table for a paid slot.
func DetectShortage(in ShortageInput) (decimal.Decimal, ShortageRuleName) {
	for _, rule := range ShortageRules {
		if !rule.Applies(in) {
			continue
		}
		if diff := rule.Amount(in); diff.GreaterThan(Tolerance) {
			return diff, rule.Name
		}
		return decimal.Zero, rule.Name
	}
	return decimal.Zero, ShortageRuleNone
}

// Reconcile walks the obligations in order, folding a single carry
// accumulator through them. A paid slot passes its overage on to the next
// slot only; an unpaid slot neither receives nor transmits credit, so the
// carry is reset there.
func Reconcile(obligations []Obligation, m Matching) []ScheduleSlot {
	slots := make([]ScheduleSlot, 0, len(obligations))
	carry := decimal.Zero
	for _, o := range obligations {
		var slot ScheduleSlot
		slot, carry = settle(o, m.ForSlot(o), carry)
		slots = append(slots, slot)
	}
	return slots
}

// settle is the fold step: it reconciles one obligation given the incoming
// carry and returns the slot and the carry for the next obligation.
func settle(o Obligation, p *PaymentRecord, carry decimal.Decimal) (ScheduleSlot, decimal.Decimal) {
	slot := ScheduleSlot{
		Index:                 o.Index,
		DueDate:               o.DueDate,
		ScheduledAmount:       o.ScheduledAmount,
		IsInitial:             o.IsInitial,
		CarryApplied:          decimal.Zero,
		NeedToPay:             o.ScheduledAmount,
		ActualPaidAmount:      decimal.Zero,
		ShortageAmount:        decimal.Zero,
		OverageCarriedForward: decimal.Zero,
	}
	if p == nil {
		return slot, decimal.Zero
	}

	slot.IsPaid = true
	slot.MatchedPayment = p
	slot.CarryApplied = carry

	if p.ExpectedAmount != nil {
		slot.NeedToPay = *p.ExpectedAmount
	} else {
		slot.NeedToPay = nonNegative(o.ScheduledAmount.Sub(carry))
	}
	slot.ActualPaidAmount = p.PaidAmount()

	slot.ShortageAmount, slot.ShortageRule = DetectShortage(ShortageInput{
		Payment:   p,
		Scheduled: o.ScheduledAmount,
		NeedToPay: slot.NeedToPay,
	})

	if over := slot.ActualPaidAmount.Sub(slot.NeedToPay); over.GreaterThan(Tolerance) {
		slot.OverageCarriedForward = over
	}
	return slot, slot.OverageCarriedForward
}

func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
