package repository

import (
	"context"
	"time"

	"github.com/sjperalta/fintera-schedule/internal/models"
	"gorm.io/gorm"
)

// ContractRepository defines read access to contract snapshots
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDWithPayments(ctx context.Context, id uint) (*models.Contract, error)
	// EachActiveBatch walks approved, active contracts with their payments
	// preloaded, batchSize contracts at a time.
	EachActiveBatch(ctx context.Context, batchSize int, fn func(batch []models.Contract) error) error
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

// withNames selects the contract row plus the lot, project and applicant
// names the schedule documents print.
func withNames(db *gorm.DB) *gorm.DB {
	return db.
		Select("contracts.*, users.full_name AS applicant_name, lots.name AS lot_name, projects.name AS project_name").
		Joins("LEFT JOIN lots ON lots.id = contracts.lot_id").
		Joins("LEFT JOIN projects ON projects.id = lots.project_id").
		Joins("LEFT JOIN users ON users.id = contracts.applicant_user_id")
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Scopes(withNames).
		Where("contracts.id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithPayments(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Scopes(withNames).
		Preload("Payments", orderPayments).
		Where("contracts.id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) EachActiveBatch(ctx context.Context, batchSize int, fn func(batch []models.Contract) error) error {
	var batch []models.Contract
	result := r.db.WithContext(ctx).
		Scopes(withNames).
		Where("contracts.active = ? AND contracts.status = ?", true, models.ContractStatusApproved).
		Preload("Payments", orderPayments).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	return result.Error
}

// orderPayments keeps the stored order stable across queries; settlement
// order is decided by the schedule engine.
func orderPayments(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// PaymentRepository defines read access to payment snapshots
type PaymentRepository interface {
	FindByContract(ctx context.Context, contractID uint) ([]models.Payment, error)
	ChangeMarker(ctx context.Context, contractID uint) (*PaymentChangeMarker, error)
}

// PaymentChangeMarker summarises a contract's payment history cheaply enough to
// detect changes without loading it.
type PaymentChangeMarker struct {
	Count       int64
	LastUpdated *time.Time
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByContract(ctx context.Context, contractID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ChangeMarker(ctx context.Context, contractID uint) (*PaymentChangeMarker, error) {
	var marker PaymentChangeMarker
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COUNT(*) AS count, MAX(updated_at) AS last_updated").
		Where("contract_id = ?", contractID).
		Scan(&marker).Error
	if err != nil {
		return nil, err
	}
	return &marker, nil
}
