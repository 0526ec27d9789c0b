package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-schedule/internal/schedule"
)

// Contract is the read-only snapshot of an installment contract. The lot,
// project and applicant names are filled by the repository join and are
// never written back.
type Contract struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	LotID           uint                `gorm:"not null;index" json:"lot_id"`
	ApplicantUserID uint                `gorm:"not null;index" json:"applicant_user_id"`
	PaymentTerm     int                 `gorm:"not null" json:"payment_term"`
	FinancingType   string              `gorm:"not null" json:"financing_type"`
	Status          string              `gorm:"default:pending;index" json:"status"`
	Amount          decimal.NullDecimal `gorm:"type:decimal" json:"amount"`
	Balance         decimal.NullDecimal `gorm:"type:decimal" json:"balance"`
	DownPayment     decimal.NullDecimal `gorm:"type:decimal" json:"down_payment"`
	ReserveAmount   decimal.NullDecimal `gorm:"type:decimal" json:"reserve_amount"`
	Currency        string              `gorm:"default:HNL;not null" json:"currency"`
	ApprovedAt      *time.Time          `gorm:"index" json:"approved_at"`
	Active          bool                `gorm:"default:false;index" json:"active"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	ApplicantName string `gorm:"->;-:migration" json:"applicant_name"`
	LotName       string `gorm:"->;-:migration" json:"lot_name"`
	ProjectName   string `gorm:"->;-:migration" json:"project_name"`

	// Associations
	Payments []Payment `gorm:"foreignKey:ContractID" json:"payments,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	ContractStatusPending   = "pending"
	ContractStatusSubmitted = "submitted"
	ContractStatusApproved  = "approved"
	ContractStatusRejected  = "rejected"
	ContractStatusCancelled = "cancelled"
	ContractStatusClosed    = "closed"
)

// FinancedAmount is the part of the price covered by the schedule: the
// contract amount less the reservation, which is settled before approval.
func (c *Contract) FinancedAmount() decimal.Decimal {
	return c.Amount.Decimal.Sub(c.ReserveAmount.Decimal)
}

// MonthlyInstallment is the base installment: what remains after reservation
// and down payment, split over the term and rounded down to whole units.
// Zero when the term is not positive or nothing remains to finance.
func (c *Contract) MonthlyInstallment() decimal.Decimal {
	remaining := c.FinancedAmount().Sub(c.DownPayment.Decimal)
	if c.PaymentTerm <= 0 || !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(c.PaymentTerm))).Floor()
}

// ToTerms maps the contract onto the schedule inputs. The schedule starts on
// the approval date; installments fall due monthly from the month after.
func (c *Contract) ToTerms() schedule.ContractTerms {
	terms := schedule.ContractTerms{
		Period:         c.PaymentTerm,
		MonthlyPayment: c.MonthlyInstallment(),
		InitialPayment: c.DownPayment.Decimal,
	}

	if c.ApprovedAt != nil {
		terms.StartDate = schedule.DateOnly(*c.ApprovedAt)
	}
	if c.Amount.Valid {
		total := c.FinancedAmount()
		terms.TotalPrice = &total
	}
	if c.Balance.Valid {
		balance := c.Balance.Decimal
		terms.RemainingDebt = &balance
	}
	return terms
}
