package schedule

import (
	"errors"
	"fmt"
)

// ErrPaymentsNotArray is returned when the payment history is not a JSON array.
// It is the only input problem that rejects a whole computation.
var ErrPaymentsNotArray = errors.New("payments must be a JSON array")

// ErrPeriodOutOfRange is returned when a contract period exceeds MaxPeriod.
var ErrPeriodOutOfRange = errors.New("contract period out of range")

// MaxPeriod is the longest term, in months, the engine will project.
const MaxPeriod = 1200

// DiagnosticKind groups diagnostics for logging and metrics.
type DiagnosticKind string

const (
	// DiagnosticMalformedDate marks an unparseable or missing date.
	DiagnosticMalformedDate DiagnosticKind = "malformed_date"
	// DiagnosticInvalidAmount marks an amount that could not be coerced to a number.
	DiagnosticInvalidAmount DiagnosticKind = "invalid_amount"
	// DiagnosticInvalidRecord marks a payment entry that is not a JSON object.
	DiagnosticInvalidRecord DiagnosticKind = "invalid_record"
	// DiagnosticDueDateAdjusted marks a first monthly due date that was replaced by the default.
	DiagnosticDueDateAdjusted DiagnosticKind = "due_date_adjusted"
	// DiagnosticPeriodOutOfRange marks a stored term longer than MaxPeriod.
	DiagnosticPeriodOutOfRange DiagnosticKind = "period_out_of_range"
	// DiagnosticUnmatchedPayment marks a settled payment that no slot claimed.
	DiagnosticUnmatchedPayment DiagnosticKind = "unmatched_payment"
)

// Diagnostic describes one input anomaly the engine worked around.
type Diagnostic struct {
	Kind     DiagnosticKind
	RecordID string
	Field    string
	Message  string
}

func (d Diagnostic) String() string {
	if d.RecordID == "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: payment %s: %s: %s", d.Kind, d.RecordID, d.Field, d.Message)
}
