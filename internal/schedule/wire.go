package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ContractInput is the contract as served by the contract-fetch service.
type ContractInput struct {
	StartDate             string          `json:"startDate"`
	Period                json.RawMessage `json:"period"`
	MonthlyPayment        json.RawMessage `json:"monthlyPayment"`
	InitialPayment        json.RawMessage `json:"initialPayment"`
	InitialPaymentDueDate *string         `json:"initialPaymentDueDate,omitempty"`
	TotalPrice            json.RawMessage `json:"totalPrice,omitempty"`
	RemainingDebt         json.RawMessage `json:"remainingDebt,omitempty"`
}

// PaymentInput is one entry of the payment-history service response.
type PaymentInput struct {
	ID              json.RawMessage `json:"id"`
	Date            string          `json:"date"`
	ConfirmedAt     *string         `json:"confirmedAt,omitempty"`
	Amount          json.RawMessage `json:"amount"`
	ActualAmount    json.RawMessage `json:"actualAmount,omitempty"`
	IsPaid          bool            `json:"isPaid"`
	PaymentType     string          `json:"paymentType"`
	Status          *string         `json:"status,omitempty"`
	RemainingAmount json.RawMessage `json:"remainingAmount,omitempty"`
	ExpectedAmount  json.RawMessage `json:"expectedAmount,omitempty"`
	Notes           Notes           `json:"notes"`
}

// Notes accepts either a plain string or an object of the form {"text": "..."}.
type Notes string

func (n *Notes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Notes(s)
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("notes must be a string or {text}: %w", err)
	}
	*n = Notes(obj.Text)
	return nil
}

// DecodeContract parses the contract document. Amounts that cannot be read
// fall back to zero; dates that cannot be read are left for Project to report.
func DecodeContract(data []byte) (ContractTerms, []Diagnostic, error) {
	var in ContractInput
	if err := json.Unmarshal(data, &in); err != nil {
		return ContractTerms{}, nil, fmt.Errorf("invalid contract: %w", err)
	}
	return in.Terms()
}

// Terms converts the wire contract into engine terms.
func (in ContractInput) Terms() (ContractTerms, []Diagnostic, error) {
	var diags []Diagnostic
	var terms ContractTerms

	period, err := parseInt(in.Period)
	if err != nil {
		return ContractTerms{}, nil, fmt.Errorf("invalid contract period: %w", err)
	}
	if period > MaxPeriod {
		return ContractTerms{}, nil, fmt.Errorf("%w: %d months, max %d", ErrPeriodOutOfRange, period, MaxPeriod)
	}
	terms.Period = period

	if t, err := ParseDate(in.StartDate); err == nil {
		terms.StartDate = t
	}
	if in.InitialPaymentDueDate != nil && strings.TrimSpace(*in.InitialPaymentDueDate) != "" {
		// Unparseable dates stay zero; Project falls back and reports it.
		t, _ := ParseDate(*in.InitialPaymentDueDate)
		terms.InitialPaymentDueDate = &t
	}

	amounts := []struct {
		field string
		raw   json.RawMessage
		dst   *decimal.Decimal
	}{
		{"monthlyPayment", in.MonthlyPayment, &terms.MonthlyPayment},
		{"initialPayment", in.InitialPayment, &terms.InitialPayment},
	}
	for _, a := range amounts {
		v, err := parseAmount(a.raw)
		if err != nil {
			diags = append(diags, Diagnostic{Kind: DiagnosticInvalidAmount, Field: a.field, Message: err.Error()})
			continue
		}
		if v != nil {
			*a.dst = *v
		}
	}

	if v, err := parseAmount(in.TotalPrice); err == nil {
		terms.TotalPrice = v
	} else {
		diags = append(diags, Diagnostic{Kind: DiagnosticInvalidAmount, Field: "totalPrice", Message: err.Error()})
	}
	if v, err := parseAmount(in.RemainingDebt); err == nil {
		terms.RemainingDebt = v
	} else {
		diags = append(diags, Diagnostic{Kind: DiagnosticInvalidAmount, Field: "remainingDebt", Message: err.Error()})
	}

	return terms, diags, nil
}

// DecodePayments parses the payment history. A body that is not an array
// fails the whole call with ErrPaymentsNotArray; any other problem rejects
// only the affected record and is reported as a diagnostic.
func DecodePayments(data []byte) ([]PaymentRecord, []Diagnostic, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []PaymentRecord{}, nil, nil
	}
	if trimmed[0] != '[' {
		return nil, nil, ErrPaymentsNotArray
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPaymentsNotArray, err)
	}

	records := make([]PaymentRecord, 0, len(raw))
	var diags []Diagnostic
	for i, item := range raw {
		var in PaymentInput
		if err := json.Unmarshal(item, &in); err != nil {
			diags = append(diags, Diagnostic{
				Kind:     DiagnosticInvalidRecord,
				RecordID: fmt.Sprintf("#%d", i),
				Field:    "payment",
				Message:  err.Error(),
			})
			continue
		}
		rec, recDiags, ok := in.Record(i)
		diags = append(diags, recDiags...)
		if ok {
			records = append(records, rec)
		}
	}
	return records, diags, nil
}

// Record converts one wire payment. ok is false when the record has to be
// excluded (unreadable date or amount).
func (in PaymentInput) Record(position int) (rec PaymentRecord, diags []Diagnostic, ok bool) {
	rec.ID = recordID(in.ID, position)

	date, err := ParseDate(in.Date)
	if err != nil {
		return rec, []Diagnostic{{
			Kind:     DiagnosticMalformedDate,
			RecordID: rec.ID,
			Field:    "date",
			Message:  err.Error() + "; record excluded from matching",
		}}, false
	}
	rec.Date = date

	if in.ConfirmedAt != nil && strings.TrimSpace(*in.ConfirmedAt) != "" {
		if t, err := ParseDateTime(*in.ConfirmedAt); err == nil {
			rec.ConfirmedAt = &t
		} else {
			diags = append(diags, Diagnostic{
				Kind:     DiagnosticMalformedDate,
				RecordID: rec.ID,
				Field:    "confirmedAt",
				Message:  err.Error() + "; ordering by payment date",
			})
		}
	}

	amounts := []struct {
		field string
		raw   json.RawMessage
		dst   **decimal.Decimal
	}{
		{"amount", in.Amount, &rec.Amount},
		{"actualAmount", in.ActualAmount, &rec.ActualAmount},
		{"remainingAmount", in.RemainingAmount, &rec.RemainingAmount},
		{"expectedAmount", in.ExpectedAmount, &rec.ExpectedAmount},
	}
	for _, a := range amounts {
		v, err := parseAmount(a.raw)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:     DiagnosticInvalidAmount,
				RecordID: rec.ID,
				Field:    a.field,
				Message:  err.Error() + "; record rejected",
			})
			return rec, diags, false
		}
		*a.dst = v
	}

	rec.IsPaid = in.IsPaid
	rec.PaymentType = PaymentType(strings.ToLower(strings.TrimSpace(in.PaymentType)))
	if in.Status != nil {
		rec.Status = PaymentStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
	}
	rec.Notes = string(in.Notes)
	return rec, diags, true
}

// parseAmount reads a JSON number or numeric string. Absent, null and empty
// values are nil so the caller can apply its own default.
func parseAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return nil, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("amount %s is not numeric", string(raw))
	}
	return &d, nil
}

func parseInt(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	s := strings.Trim(string(raw), `"`)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer", string(raw))
	}
	n := d.IntPart()
	if !decimal.NewFromInt(n).Equal(d.Truncate(0)) || int64(int(n)) != n {
		return 0, fmt.Errorf("%s: %w", string(raw), ErrPeriodOutOfRange)
	}
	return int(n), nil
}

func recordID(raw json.RawMessage, position int) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Sprintf("#%d", position)
	}
	return strings.Trim(string(raw), `"`)
}

// SlotOutput is one row of the schedule as consumed by the rendering layer
// and reports.
type SlotOutput struct {
	Index                 int         `json:"index"`
	DueDate               string      `json:"dueDate"`
	ScheduledAmount       json.Number `json:"scheduledAmount"`
	IsPaid                bool        `json:"isPaid"`
	NeedToPay             json.Number `json:"needToPay"`
	ActualPaidAmount      json.Number `json:"actualPaidAmount"`
	ShortageAmount        json.Number `json:"shortageAmount"`
	OverageCarriedForward json.Number `json:"overageCarriedForward"`
	DelayDays             int         `json:"delayDays"`
	PaymentID             string      `json:"paymentId,omitempty"`
	Status                string      `json:"status,omitempty"`
}

// SummaryOutput is the aggregate summary record.
type SummaryOutput struct {
	TotalScheduled json.Number `json:"totalScheduled"`
	TotalPaid      json.Number `json:"totalPaid"`
	RemainingDebt  json.Number `json:"remainingDebt"`
}

// Output is the encoded schedule.
type Output struct {
	Schedule []SlotOutput  `json:"schedule"`
	Summary  SummaryOutput `json:"summary"`
}

// Labeler names a slot's display status. It may be nil.
type Labeler func(ScheduleSlot) string

// Encode converts a schedule into its wire form. Amounts are fixed to two
// decimals so identical inputs always encode to identical bytes.
func Encode(s *Schedule, label Labeler) Output {
	out := Output{
		Schedule: make([]SlotOutput, 0, len(s.Slots)),
		Summary: SummaryOutput{
			TotalScheduled: money(s.Summary.TotalScheduled),
			TotalPaid:      money(s.Summary.TotalPaid),
			RemainingDebt:  money(s.Summary.RemainingDebt),
		},
	}
	for _, slot := range s.Slots {
		row := SlotOutput{
			Index:                 slot.Index,
			DueDate:               slot.DueDate.Format(isoDate),
			ScheduledAmount:       money(slot.ScheduledAmount),
			IsPaid:                slot.IsPaid,
			NeedToPay:             money(slot.NeedToPay),
			ActualPaidAmount:      money(slot.ActualPaidAmount),
			ShortageAmount:        money(slot.ShortageAmount),
			OverageCarriedForward: money(slot.OverageCarriedForward),
			DelayDays:             slot.DelayDays,
		}
		if slot.MatchedPayment != nil {
			row.PaymentID = slot.MatchedPayment.ID
		}
		if label != nil {
			row.Status = label(slot)
		}
		out.Schedule = append(out.Schedule, row)
	}
	return out
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
