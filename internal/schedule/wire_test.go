package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContract(t *testing.T) {
	data := []byte(`{
		"startDate": "2024-01-10",
		"period": "3",
		"monthlyPayment": "100.00",
		"initialPayment": 50,
		"initialPaymentDueDate": "2024-02-10T00:00:00Z",
		"totalPrice": "350.00",
		"remainingDebt": null
	}`)

	terms, diags, err := DecodeContract(data)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, day(2024, time.January, 10), terms.StartDate)
	assert.Equal(t, 3, terms.Period)
	assertAmount(t, "100", terms.MonthlyPayment)
	assertAmount(t, "50", terms.InitialPayment)
	require.NotNil(t, terms.InitialPaymentDueDate)
	assert.Equal(t, day(2024, time.February, 10), *terms.InitialPaymentDueDate)
	require.NotNil(t, terms.TotalPrice)
	assertAmount(t, "350", *terms.TotalPrice)
	assert.Nil(t, terms.RemainingDebt)
}

func TestDecodeContract_BadValues(t *testing.T) {
	t.Run("unreadable amount defaults to zero", func(t *testing.T) {
		terms, diags, err := DecodeContract([]byte(`{"startDate":"2024-01-10","period":3,"monthlyPayment":"abc"}`))
		require.NoError(t, err)
		assert.True(t, terms.MonthlyPayment.IsZero())
		require.Len(t, diags, 1)
		assert.Equal(t, DiagnosticInvalidAmount, diags[0].Kind)
		assert.Equal(t, "monthlyPayment", diags[0].Field)
	})

	t.Run("unreadable first due date falls back", func(t *testing.T) {
		terms, _, err := DecodeContract([]byte(`{"startDate":"2024-01-10","period":2,"monthlyPayment":10,"initialPaymentDueDate":"soon"}`))
		require.NoError(t, err)

		obligations, diags := Project(terms)
		require.Len(t, obligations, 2)
		assert.Equal(t, day(2024, time.February, 10), obligations[0].DueDate)
		require.Len(t, diags, 1)
		assert.Equal(t, DiagnosticDueDateAdjusted, diags[0].Kind)
	})

	t.Run("period must be numeric", func(t *testing.T) {
		_, _, err := DecodeContract([]byte(`{"startDate":"2024-01-10","period":"twelve"}`))
		assert.Error(t, err)
	})

	t.Run("period out of range", func(t *testing.T) {
		for _, period := range []string{"1201", "4611686018427387904", "1e30", `"99999999999999999999"`} {
			_, _, err := DecodeContract([]byte(`{"startDate":"2024-01-10","monthlyPayment":10,"period":` + period + `}`))
			assert.True(t, errors.Is(err, ErrPeriodOutOfRange), "period %s: %v", period, err)
		}
	})

	t.Run("longest period is accepted", func(t *testing.T) {
		terms, _, err := DecodeContract([]byte(`{"startDate":"2024-01-10","monthlyPayment":10,"period":1200}`))
		require.NoError(t, err)
		assert.Equal(t, MaxPeriod, terms.Period)
	})

	t.Run("not an object", func(t *testing.T) {
		_, _, err := DecodeContract([]byte(`[1,2]`))
		assert.Error(t, err)
	})
}

func TestDecodePayments(t *testing.T) {
	data := []byte(`[
		{"id": 7, "date": "2024-02-12", "confirmedAt": "2024-02-12T15:04:05-06:00",
		 "amount": "100.50", "actualAmount": 100.5, "isPaid": true,
		 "paymentType": "Monthly", "status": "paid", "notes": {"text": "bank transfer"}},
		{"id": "abc", "date": "2024-03-08", "amount": 120, "isPaid": true,
		 "paymentType": "monthly", "notes": "cash"}
	]`)

	records, diags, err := DecodePayments(data)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "7", first.ID)
	assert.Equal(t, day(2024, time.February, 12), first.Date)
	require.NotNil(t, first.ConfirmedAt)
	assert.True(t, first.ConfirmedAt.Equal(time.Date(2024, time.February, 12, 21, 4, 5, 0, time.UTC)))
	assertAmount(t, "100.5", *first.Amount)
	assertAmount(t, "100.5", *first.ActualAmount)
	assert.Equal(t, PaymentTypeMonthly, first.PaymentType)
	assert.Equal(t, PaymentStatusPaid, first.Status)
	assert.Equal(t, "bank transfer", first.Notes)

	second := records[1]
	assert.Equal(t, "abc", second.ID)
	assert.Nil(t, second.ConfirmedAt)
	assert.Nil(t, second.ActualAmount)
	assert.Equal(t, PaymentStatus(""), second.Status)
	assert.Equal(t, "cash", second.Notes)
}

func TestDecodePayments_RejectsOnlyBadRecords(t *testing.T) {
	data := []byte(`[
		{"id": 1, "date": "2024-02-10", "amount": "lots", "isPaid": true, "paymentType": "monthly"},
		{"id": 2, "date": "10/02/2024", "amount": 100, "isPaid": true, "paymentType": "monthly"},
		{"id": 3, "date": "2024-02-10", "amount": 100, "isPaid": true, "paymentType": "monthly", "confirmedAt": "later"},
		"not a record",
		{"id": 5, "date": "2024-03-10", "amount": 100, "isPaid": true, "paymentType": "monthly"}
	]`)

	records, diags, err := DecodePayments(data)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "3", records[0].ID)
	assert.Nil(t, records[0].ConfirmedAt)
	assert.Equal(t, "5", records[1].ID)

	kinds := map[string]DiagnosticKind{}
	for _, d := range diags {
		kinds[d.RecordID+"/"+d.Field] = d.Kind
	}
	assert.Equal(t, map[string]DiagnosticKind{
		"1/amount":      DiagnosticInvalidAmount,
		"2/date":        DiagnosticMalformedDate,
		"3/confirmedAt": DiagnosticMalformedDate,
		"#3/payment":    DiagnosticInvalidRecord,
	}, kinds)
}

func TestDecodePayments_Envelope(t *testing.T) {
	for _, body := range []string{"", "null", "  "} {
		records, diags, err := DecodePayments([]byte(body))
		require.NoError(t, err, "body %q", body)
		assert.NotNil(t, records)
		assert.Empty(t, records)
		assert.Empty(t, diags)
	}

	for _, body := range []string{`{"payments": []}`, `"[]"`, `42`, `[1, 2`} {
		_, _, err := DecodePayments([]byte(body))
		assert.True(t, errors.Is(err, ErrPaymentsNotArray), "body %q", body)
	}
}

func TestEncode(t *testing.T) {
	s := Build(exampleTerms(), examplePayments(), day(2024, time.June, 15))
	label := func(slot ScheduleSlot) string {
		if slot.IsPaid {
			return "paid"
		}
		return "open"
	}

	data, err := json.Marshal(Encode(s, label))
	require.NoError(t, err)

	var got struct {
		Schedule []map[string]any `json:"schedule"`
		Summary  map[string]any   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Schedule, 4)

	assert.Equal(t, map[string]any{
		"index":                 float64(2),
		"dueDate":               "2024-03-10",
		"scheduledAmount":       float64(100),
		"isPaid":                true,
		"needToPay":             float64(100),
		"actualPaidAmount":      float64(120),
		"shortageAmount":        float64(0),
		"overageCarriedForward": float64(20),
		"delayDays":             float64(-2),
		"paymentId":             "3",
		"status":                "paid",
	}, got.Schedule[2])

	_, hasPayment := got.Schedule[3]["paymentId"]
	assert.False(t, hasPayment)
	assert.Equal(t, "open", got.Schedule[3]["status"])

	assert.Contains(t, string(data), `"totalScheduled":350.00`)
	assert.Contains(t, string(data), `"remainingDebt":80.00`)
}
