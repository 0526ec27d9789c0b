package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Contract ContractRepository
	Payment  PaymentRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Contract: NewContractRepository(db),
		Payment:  NewPaymentRepository(db),
	}
}
