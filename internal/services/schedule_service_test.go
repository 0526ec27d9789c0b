package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-schedule/internal/cache"
	"github.com/sjperalta/fintera-schedule/internal/models"
	"github.com/sjperalta/fintera-schedule/internal/repository"
	"github.com/sjperalta/fintera-schedule/internal/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubContractRepo struct {
	repository.ContractRepository
	findByID             func(ctx context.Context, id uint) (*models.Contract, error)
	findByIDWithPayments func(ctx context.Context, id uint) (*models.Contract, error)
	eachActiveBatch      func(ctx context.Context, batchSize int, fn func([]models.Contract) error) error
}

func (m *stubContractRepo) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	return m.findByID(ctx, id)
}

func (m *stubContractRepo) FindByIDWithPayments(ctx context.Context, id uint) (*models.Contract, error) {
	return m.findByIDWithPayments(ctx, id)
}

func (m *stubContractRepo) EachActiveBatch(ctx context.Context, batchSize int, fn func([]models.Contract) error) error {
	return m.eachActiveBatch(ctx, batchSize, fn)
}

type stubPaymentRepo struct {
	repository.PaymentRepository
	payments      []models.Payment
	findCalls     int
	marker        repository.PaymentChangeMarker
	changeMarkErr error
}

func (m *stubPaymentRepo) FindByContract(ctx context.Context, contractID uint) ([]models.Payment, error) {
	m.findCalls++
	return m.payments, nil
}

func (m *stubPaymentRepo) ChangeMarker(ctx context.Context, contractID uint) (*repository.PaymentChangeMarker, error) {
	if m.changeMarkErr != nil {
		return nil, m.changeMarkErr
	}
	marker := m.marker
	return &marker, nil
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// fixtureContract is a three-installment contract with a down payment, paid
// through March with the last installment outstanding.
func fixtureContract() *models.Contract {
	return &models.Contract{
		ID:            7,
		ApplicantName: "María López",
		LotName:       "Lote 12",
		ProjectName:   "Residencial Las Lomas",
		Status:        models.ContractStatusApproved,
		Active:        true,
		Currency:      "HNL",
		PaymentTerm:   3,
		Amount:        nullDec("370"),
		ReserveAmount: nullDec("20"),
		DownPayment:   nullDec("50"),
		ApprovedAt:    dayPtr(2024, time.January, 10),
		UpdatedAt:     time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC),
		Payments:      fixturePayments(),
	}
}

func fixturePayments() []models.Payment {
	return []models.Payment{
		{ID: 1, ContractID: 7, Amount: decimal.NewFromInt(20), PaymentDate: dayPtr(2024, time.January, 2),
			Status: models.PaymentStatusPaid, PaymentType: models.PaymentTypeReservation},
		{ID: 2, ContractID: 7, Amount: decimal.NewFromInt(50), PaymentDate: dayPtr(2024, time.January, 10),
			Status: models.PaymentStatusPaid, PaymentType: models.PaymentTypeDownPayment},
		{ID: 3, ContractID: 7, Amount: decimal.NewFromInt(100), PaymentDate: dayPtr(2024, time.February, 12),
			Status: models.PaymentStatusPaid, PaymentType: models.PaymentTypeInstallment},
		{ID: 4, ContractID: 7, Amount: decimal.NewFromInt(120), PaymentDate: dayPtr(2024, time.March, 8),
			Status: models.PaymentStatusPaid, PaymentType: models.PaymentTypeInstallment},
		{ID: 5, ContractID: 7, Amount: decimal.NewFromInt(100), PaymentDate: dayPtr(2024, time.April, 10),
			Status: models.PaymentStatusSubmitted, PaymentType: models.PaymentTypeInstallment},
	}
}

func newTestScheduleService(contracts *stubContractRepo, payments *stubPaymentRepo, c cache.Cache) *ScheduleService {
	svc := NewScheduleService(contracts, payments, c, time.Hour, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC) }
	return svc
}

func fixtureRepos() (*stubContractRepo, *stubPaymentRepo) {
	contracts := &stubContractRepo{
		findByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			if id != 7 {
				return nil, gorm.ErrRecordNotFound
			}
			c := fixtureContract()
			c.Payments = nil
			return c, nil
		},
		findByIDWithPayments: func(ctx context.Context, id uint) (*models.Contract, error) {
			if id != 7 {
				return nil, gorm.ErrRecordNotFound
			}
			return fixtureContract(), nil
		},
	}
	payments := &stubPaymentRepo{
		payments: fixturePayments(),
		marker:   repository.PaymentChangeMarker{Count: 5},
	}
	return contracts, payments
}

func TestScheduleService_Today(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	svc := NewScheduleService(nil, nil, nil, 0, loc)
	svc.now = func() time.Time { return time.Date(2024, time.June, 16, 3, 0, 0, 0, time.UTC) }

	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), svc.Today())
}

func TestScheduleService_Compute(t *testing.T) {
	contracts, payments := fixtureRepos()
	svc := newTestScheduleService(contracts, payments, nil)

	cs, err := svc.Compute(context.Background(), 7)
	require.NoError(t, err)

	// the reservation is not part of the plan
	assert.Len(t, cs.Records, 4)
	require.Len(t, cs.Schedule.Slots, 4)

	slots := cs.Schedule.Slots
	assert.True(t, slots[0].IsInitial)
	assert.True(t, slots[0].IsPaid)
	assert.Equal(t, 2, slots[1].DelayDays)
	assert.True(t, slots[2].OverageCarriedForward.Equal(decimal.NewFromInt(20)))
	assert.False(t, slots[3].IsPaid, "a submitted payment is not settled")
	assert.Equal(t, 66, slots[3].DelayDays)

	assert.Equal(t, "350", cs.Schedule.Summary.TotalScheduled.String())
	assert.Equal(t, "270", cs.Schedule.Summary.TotalPaid.String())
	assert.Equal(t, "80", cs.Schedule.Summary.RemainingDebt.String())
}

func TestScheduleService_ComputeNotFound(t *testing.T) {
	contracts, payments := fixtureRepos()
	svc := newTestScheduleService(contracts, payments, nil)

	cs, err := svc.Compute(context.Background(), 99)
	assert.Nil(t, cs)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestScheduleService_ContractSchedule(t *testing.T) {
	contracts, payments := fixtureRepos()
	svc := newTestScheduleService(contracts, payments, cache.NewMemoryCache())

	out, err := svc.ContractSchedule(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out.Schedule, 4)

	assert.Equal(t, "2024-04-10", out.Schedule[3].DueDate)
	assert.Equal(t, "100.00", out.Schedule[3].NeedToPay.String())
	assert.Equal(t, statemachine.SlotStateOverdue, out.Schedule[3].Status)
	assert.Equal(t, statemachine.SlotStateOverpaid, out.Schedule[2].Status)
	assert.Equal(t, statemachine.SlotStatePaidLate, out.Schedule[1].Status)
	assert.Equal(t, "4", out.Schedule[2].PaymentID)
	assert.Equal(t, "80.00", out.Summary.RemainingDebt.String())
}

func TestScheduleService_ContractScheduleUsesCache(t *testing.T) {
	contracts, payments := fixtureRepos()
	svc := newTestScheduleService(contracts, payments, cache.NewMemoryCache())
	ctx := context.Background()

	first, err := svc.ContractSchedule(ctx, 7)
	require.NoError(t, err)
	second, err := svc.ContractSchedule(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, payments.findCalls)

	// a new payment changes the fingerprint
	payments.marker.Count++
	_, err = svc.ContractSchedule(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, payments.findCalls)
}

func TestScheduleService_ContractScheduleCacheExpiresWithTheDay(t *testing.T) {
	contracts, payments := fixtureRepos()
	svc := newTestScheduleService(contracts, payments, cache.NewMemoryCache())
	ctx := context.Background()

	_, err := svc.ContractSchedule(ctx, 7)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, time.June, 16, 9, 0, 0, 0, time.UTC) }
	out, err := svc.ContractSchedule(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 2, payments.findCalls)
	assert.Equal(t, 67, out.Schedule[3].DelayDays)
}

func TestScheduleService_ContractScheduleErrors(t *testing.T) {
	contracts, payments := fixtureRepos()
	svc := newTestScheduleService(contracts, payments, nil)

	_, err := svc.ContractSchedule(context.Background(), 99)
	assert.True(t, errors.Is(err, ErrNotFound))

	dbErr := errors.New("connection reset")
	payments.changeMarkErr = dbErr
	_, err = svc.ContractSchedule(context.Background(), 7)
	assert.True(t, errors.Is(err, dbErr))
	assert.False(t, errors.Is(err, ErrNotFound))
}

const previewContract = `{
	"startDate": "2024-01-10",
	"period": 3,
	"monthlyPayment": "100",
	"initialPayment": 50,
	"initialPaymentDueDate": "2024-02-10"
}`

const previewPayments = `[
	{"id": 1, "date": "2024-01-10", "amount": 50, "isPaid": true, "paymentType": "initial", "status": "PAID"},
	{"id": 2, "date": "2024-02-12", "amount": 100, "isPaid": true, "paymentType": "monthly", "status": "PAID"},
	{"id": 3, "date": "2024-03-08", "amount": "120.00", "isPaid": true, "paymentType": "monthly", "status": "PAID", "notes": {"text": "transferencia"}}
]`

func TestScheduleService_Preview(t *testing.T) {
	svc := newTestScheduleService(nil, nil, cache.NewMemoryCache())

	out, err := svc.Preview(context.Background(), []byte(previewContract), []byte(previewPayments))
	require.NoError(t, err)
	require.Len(t, out.Schedule, 4)

	assert.Equal(t, "20.00", out.Schedule[2].OverageCarriedForward.String())
	assert.Equal(t, 66, out.Schedule[3].DelayDays)
	assert.Equal(t, "350.00", out.Summary.TotalScheduled.String())
	assert.Equal(t, "270.00", out.Summary.TotalPaid.String())

	again, err := svc.Preview(context.Background(), []byte(previewContract), []byte(previewPayments))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestScheduleService_PreviewRejectsInvalidInput(t *testing.T) {
	svc := newTestScheduleService(nil, nil, nil)

	tests := []struct {
		name     string
		contract string
		payments string
	}{
		{"payments not an array", previewContract, `{"id": 1}`},
		{"contract not an object", `[1, 2]`, previewPayments},
		{"period too long", `{"startDate": "2024-01-10", "period": 1e30, "monthlyPayment": 100}`, previewPayments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Preview(context.Background(), []byte(tt.contract), []byte(tt.payments))
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestScheduleService_PreviewSkipsBadRecords(t *testing.T) {
	svc := newTestScheduleService(nil, nil, nil)
	payments := `[
		{"id": 1, "date": "2024-01-10", "amount": 50, "isPaid": true, "paymentType": "initial"},
		{"id": 2, "date": "not a date", "amount": 100, "isPaid": true, "paymentType": "monthly"},
		{"id": 3, "date": "2024-02-10", "amount": "abc", "isPaid": true, "paymentType": "monthly"}
	]`

	out, err := svc.Preview(context.Background(), []byte(previewContract), []byte(payments))
	require.NoError(t, err)
	require.Len(t, out.Schedule, 4)
	assert.True(t, out.Schedule[0].IsPaid)
	assert.False(t, out.Schedule[1].IsPaid)
	assert.Equal(t, "50.00", out.Summary.TotalPaid.String())
}
