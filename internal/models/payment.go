package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-schedule/internal/schedule"
)

// Payment is the read-only snapshot of one recorded payment.
type Payment struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	ContractID      uint                `gorm:"not null;index" json:"contract_id"`
	Amount          decimal.Decimal     `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAmount      decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"paid_amount"`
	ExpectedAmount  decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"expected_amount"`
	RemainingAmount decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"remaining_amount"`
	PaymentDate     *time.Time          `gorm:"type:date" json:"payment_date"`
	ApprovedAt      *time.Time          `gorm:"index" json:"approved_at"`
	Status          string              `gorm:"default:pending;not null;index" json:"status"`
	PaymentType     string              `gorm:"default:installment" json:"payment_type"`
	Description     *string             `json:"description"`
	CreatedAt       time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending      = "pending"
	PaymentStatusSubmitted    = "submitted"
	PaymentStatusPaid         = "paid"
	PaymentStatusUnderpaid    = "underpaid"
	PaymentStatusOverpaid     = "overpaid"
	PaymentStatusRejected     = "rejected"
	PaymentStatusReadjustment = "readjustment"
)

// Payment type constants
const (
	PaymentTypeReservation      = "reservation"
	PaymentTypeDownPayment      = "down_payment"
	PaymentTypeInstallment      = "installment"
	PaymentTypeFull             = "full"
	PaymentTypeAdvance          = "advance"
	PaymentTypeCapitalRepayment = "capital_repayment"
)

var scheduleStatuses = map[string]schedule.PaymentStatus{
	PaymentStatusPending:      schedule.PaymentStatusPending,
	PaymentStatusSubmitted:    schedule.PaymentStatusPending,
	PaymentStatusReadjustment: schedule.PaymentStatusPending,
	PaymentStatusPaid:         schedule.PaymentStatusPaid,
	PaymentStatusUnderpaid:    schedule.PaymentStatusUnderpaid,
	PaymentStatusOverpaid:     schedule.PaymentStatusOverpaid,
	PaymentStatusRejected:     schedule.PaymentStatusRejected,
}

// IsPaid reports whether the payment has been approved as received.
func (p *Payment) IsPaid() bool {
	switch p.Status {
	case PaymentStatusPaid, PaymentStatusUnderpaid, PaymentStatusOverpaid:
		return true
	}
	return false
}

// InSchedule reports whether the payment counts towards the installment plan.
// Reservations are settled before the contract exists.
func (p *Payment) InSchedule() bool {
	return p.PaymentType != PaymentTypeReservation
}

// ToRecord maps the payment onto a schedule record.
func (p *Payment) ToRecord() schedule.PaymentRecord {
	rec := schedule.PaymentRecord{
		ID:          strconv.FormatUint(uint64(p.ID), 10),
		IsPaid:      p.IsPaid(),
		Status:      scheduleStatuses[p.Status],
		PaymentType: schedule.PaymentTypeExtra,
	}

	switch p.PaymentType {
	case PaymentTypeDownPayment:
		rec.PaymentType = schedule.PaymentTypeInitial
	case PaymentTypeInstallment:
		rec.PaymentType = schedule.PaymentTypeMonthly
	}

	if p.PaymentDate != nil {
		rec.Date = schedule.DateOnly(*p.PaymentDate)
	}
	if p.ApprovedAt != nil {
		confirmed := p.ApprovedAt.UTC()
		rec.ConfirmedAt = &confirmed
	}

	amount := p.Amount
	rec.Amount = &amount
	rec.ActualAmount = nullable(p.PaidAmount)
	rec.ExpectedAmount = nullable(p.ExpectedAmount)
	rec.RemainingAmount = nullable(p.RemainingAmount)

	if p.Description != nil {
		rec.Notes = *p.Description
	}
	return rec
}

// ToRecords maps the payments that belong to the installment plan, keeping
// their order.
func ToRecords(payments []Payment) []schedule.PaymentRecord {
	records := make([]schedule.PaymentRecord, 0, len(payments))
	for i := range payments {
		if !payments[i].InSchedule() {
			continue
		}
		records = append(records, payments[i].ToRecord())
	}
	return records
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
