package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayp(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func paid(id string, typ PaymentType, date time.Time, amount string) PaymentRecord {
	return PaymentRecord{
		ID:          id,
		Date:        date,
		Amount:      decp(amount),
		IsPaid:      true,
		PaymentType: typ,
		Status:      PaymentStatusPaid,
	}
}

// exampleTerms is the reference contract used across the package tests.
func exampleTerms() ContractTerms {
	return ContractTerms{
		StartDate:             day(2024, time.January, 10),
		Period:                3,
		MonthlyPayment:        dec("100"),
		InitialPayment:        dec("50"),
		InitialPaymentDueDate: dayp(2024, time.February, 10),
	}
}
