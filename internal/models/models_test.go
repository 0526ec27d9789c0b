package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-schedule/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestContract_ToTerms(t *testing.T) {
	approved := time.Date(2024, time.January, 10, 15, 30, 0, 0, time.UTC)

	c := Contract{
		PaymentTerm:   3,
		Amount:        nd("370"),
		ReserveAmount: nd("20"),
		DownPayment:   nd("50"),
		ApprovedAt:    &approved,
	}

	terms := c.ToTerms()
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), terms.StartDate)
	assert.Equal(t, 3, terms.Period)
	assert.True(t, terms.MonthlyPayment.Equal(decimal.NewFromInt(100)))
	assert.True(t, terms.HasInitialSlot())
	assert.Nil(t, terms.InitialPaymentDueDate)
	require.NotNil(t, terms.TotalPrice)
	assert.Equal(t, "350", terms.TotalPrice.String())
	assert.Nil(t, terms.RemainingDebt)
}

func TestContract_ToTermsWithoutApproval(t *testing.T) {
	c := Contract{PaymentTerm: 12, Amount: nd("1200"), Balance: nd("900")}

	terms := c.ToTerms()
	assert.True(t, terms.StartDate.IsZero())
	assert.False(t, terms.HasInitialSlot())
	require.NotNil(t, terms.RemainingDebt)
	assert.Equal(t, "900", terms.RemainingDebt.String())
}

func TestContract_MonthlyInstallment(t *testing.T) {
	tests := []struct {
		name     string
		contract Contract
		want     string
	}{
		{"reserve and down payment", Contract{PaymentTerm: 3, Amount: nd("370"), ReserveAmount: nd("20"), DownPayment: nd("50")}, "100"},
		{"rounded down to whole units", Contract{PaymentTerm: 12, Amount: nd("100000"), ReserveAmount: nd("5000"), DownPayment: nd("10000")}, "7083"},
		{"no reserve column", Contract{PaymentTerm: 4, Amount: nd("1000")}, "250"},
		{"nothing left to finance", Contract{PaymentTerm: 6, Amount: nd("500"), DownPayment: nd("500")}, "0"},
		{"cash contract without term", Contract{PaymentTerm: 0, Amount: nd("500")}, "0"},
		{"missing amount", Contract{PaymentTerm: 6}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.contract.MonthlyInstallment()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestPayment_ToRecord(t *testing.T) {
	paidOn := time.Date(2024, time.February, 12, 0, 0, 0, 0, time.UTC)
	approved := time.Date(2024, time.February, 13, 8, 0, 0, 0, time.UTC)
	note := "transferencia"

	tests := []struct {
		name       string
		payment    Payment
		wantType   schedule.PaymentType
		wantStatus schedule.PaymentStatus
		wantPaid   bool
	}{
		{"down payment", Payment{PaymentType: PaymentTypeDownPayment, Status: PaymentStatusPaid}, schedule.PaymentTypeInitial, schedule.PaymentStatusPaid, true},
		{"installment", Payment{PaymentType: PaymentTypeInstallment, Status: PaymentStatusUnderpaid}, schedule.PaymentTypeMonthly, schedule.PaymentStatusUnderpaid, true},
		{"advance", Payment{PaymentType: PaymentTypeAdvance, Status: PaymentStatusOverpaid}, schedule.PaymentTypeExtra, schedule.PaymentStatusOverpaid, true},
		{"submitted receipt", Payment{PaymentType: PaymentTypeInstallment, Status: PaymentStatusSubmitted}, schedule.PaymentTypeMonthly, schedule.PaymentStatusPending, false},
		{"rejected", Payment{PaymentType: PaymentTypeInstallment, Status: PaymentStatusRejected}, schedule.PaymentTypeMonthly, schedule.PaymentStatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.payment
			p.ID = 42
			p.Amount = decimal.NewFromInt(100)
			p.PaidAmount = nd("95.5")
			p.PaymentDate = &paidOn
			p.ApprovedAt = &approved
			p.Description = &note

			rec := p.ToRecord()
			assert.Equal(t, "42", rec.ID)
			assert.Equal(t, tt.wantType, rec.PaymentType)
			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.Equal(t, tt.wantPaid, rec.IsPaid)
			assert.Equal(t, paidOn, rec.Date)
			require.NotNil(t, rec.ConfirmedAt)
			assert.Equal(t, approved, *rec.ConfirmedAt)
			require.NotNil(t, rec.ActualAmount)
			assert.Equal(t, "95.5", rec.ActualAmount.String())
			assert.Nil(t, rec.ExpectedAmount)
			assert.Equal(t, note, rec.Notes)
		})
	}
}

func TestToRecords_SkipsReservations(t *testing.T) {
	payments := []Payment{
		{ID: 1, PaymentType: PaymentTypeReservation, Status: PaymentStatusPaid},
		{ID: 2, PaymentType: PaymentTypeDownPayment, Status: PaymentStatusPaid},
		{ID: 3, PaymentType: PaymentTypeInstallment, Status: PaymentStatusPending},
	}

	records := ToRecords(payments)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[0].ID)
	assert.Equal(t, "3", records[1].ID)
}
