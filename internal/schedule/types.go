// Package schedule reconciles an installment contract's projected obligations
// against the payments recorded for it.
//
// Every function in this package is a pure transform of its arguments: nothing
// is cached between calls and the caller's records are never modified. A
// schedule is cheap to rebuild and should simply be recomputed whenever the
// contract or its payment history changes.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tolerance absorbs currency rounding. Amounts are never compared for exact
// equality; a difference counts only when it exceeds Tolerance.
var Tolerance = decimal.NewFromFloat(0.01)

// PaymentType classifies a recorded payment.
type PaymentType string

const (
	PaymentTypeInitial PaymentType = "initial"
	PaymentTypeMonthly PaymentType = "monthly"
	PaymentTypeExtra   PaymentType = "extra"
)

// PaymentStatus is the server-side settlement status of a payment.
type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusUnderpaid PaymentStatus = "UNDERPAID"
	PaymentStatusOverpaid  PaymentStatus = "OVERPAID"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// ContractTerms are the immutable inputs that define the obligation schedule.
type ContractTerms struct {
	StartDate      time.Time
	Period         int
	MonthlyPayment decimal.Decimal
	InitialPayment decimal.Decimal
	// InitialPaymentDueDate is the due date of the first monthly slot.
	// Defaults to StartDate + 1 month.
	InitialPaymentDueDate *time.Time

	// Server-computed totals. When present they win over the values derived
	// from the slots.
	TotalPrice    *decimal.Decimal
	RemainingDebt *decimal.Decimal
}

// HasInitialSlot reports whether the schedule starts with an initial payment slot.
func (t ContractTerms) HasInitialSlot() bool {
	return t.InitialPayment.GreaterThan(decimal.Zero)
}

// PaymentRecord is one recorded transaction as reported by the payment history.
type PaymentRecord struct {
	ID          string
	Date        time.Time
	ConfirmedAt *time.Time
	Amount      *decimal.Decimal
	// ActualAmount overrides Amount as the settled value.
	ActualAmount    *decimal.Decimal
	IsPaid          bool
	PaymentType     PaymentType
	Status          PaymentStatus
	RemainingAmount *decimal.Decimal
	ExpectedAmount  *decimal.Decimal
	Notes           string
}

// Settled reports whether the record takes part in reconciliation. Records that
// are not paid, or that the server still holds as pending or rejected, are
// ignored entirely.
func (p *PaymentRecord) Settled() bool {
	if !p.IsPaid {
		return false
	}
	return p.Status != PaymentStatusPending && p.Status != PaymentStatusRejected
}

// settlementKey is the instant used to order records: ConfirmedAt when known,
// the nominal payment date otherwise.
func (p *PaymentRecord) settlementKey() time.Time {
	if p.ConfirmedAt != nil && !p.ConfirmedAt.IsZero() {
		return *p.ConfirmedAt
	}
	return p.Date
}

// PaidAmount is ActualAmount, falling back to Amount, falling back to zero.
func (p *PaymentRecord) PaidAmount() decimal.Decimal {
	if p.ActualAmount != nil {
		return *p.ActualAmount
	}
	if p.Amount != nil {
		return *p.Amount
	}
	return decimal.Zero
}

// Obligation is a projected slot before any payment is applied.
type Obligation struct {
	Index           int
	DueDate         time.Time
	ScheduledAmount decimal.Decimal
	IsInitial       bool
}

// ScheduleSlot is one reconciled obligation.
type ScheduleSlot struct {
	Index           int
	DueDate         time.Time
	ScheduledAmount decimal.Decimal
	IsInitial       bool
	IsPaid          bool

	// MatchedPayment points into the slice handed to Build. It is a lookup,
	// not a copy, and must not be modified through the slot.
	MatchedPayment *PaymentRecord

	// CarryApplied is the overage credit received from the previous slot.
	CarryApplied          decimal.Decimal
	NeedToPay             decimal.Decimal
	ActualPaidAmount      decimal.Decimal
	ShortageAmount        decimal.Decimal
	ShortageRule          ShortageRuleName
	OverageCarriedForward decimal.Decimal

	// DelayDays is positive when late, zero or negative when on time.
	DelayDays int
}

// IsOverdue reports whether the slot is unpaid past its due date.
func (s ScheduleSlot) IsOverdue() bool {
	return !s.IsPaid && s.DelayDays > 0
}

// HasShortage reports whether a paid slot still owes money.
func (s ScheduleSlot) HasShortage() bool {
	return s.ShortageAmount.GreaterThan(Tolerance)
}

// Summary is the roll-up shown next to the schedule.
type Summary struct {
	TotalScheduled decimal.Decimal
	TotalPaid      decimal.Decimal
	RemainingDebt  decimal.Decimal
}

// Schedule is the engine's complete output.
type Schedule struct {
	Slots   []ScheduleSlot
	Summary Summary

	// Unmatched holds settled records that no slot claimed, in settlement order.
	Unmatched []*PaymentRecord

	// Diagnostics describe inputs that were skipped or corrected. They are
	// meant for logs, never for end users.
	Diagnostics []Diagnostic
}

// OverdueSlots counts unpaid slots past their due date.
func (s *Schedule) OverdueSlots() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.IsOverdue() {
			n++
		}
	}
	return n
}

// PaidSlots counts slots with a matched payment.
func (s *Schedule) PaidSlots() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.IsPaid {
			n++
		}
	}
	return n
}
