package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/fintera-schedule/internal/metrics"
	"github.com/sjperalta/fintera-schedule/internal/models"
	"github.com/sjperalta/fintera-schedule/internal/repository"
	"github.com/sjperalta/fintera-schedule/pkg/logger"
)

const delinquencyBatchSize = 200

// DelinquentContract describes one contract with unpaid slots past due.
type DelinquentContract struct {
	ContractID    uint            `json:"contract_id"`
	ApplicantName string          `json:"applicant_name"`
	OverdueSlots  int             `json:"overdue_slots"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	MaxDelayDays  int             `json:"max_delay_days"`
}

// DelinquencyReport is the result of one scan over the active contracts.
type DelinquencyReport struct {
	ContractsScanned int                  `json:"contracts_scanned"`
	OverdueSlots     int                  `json:"overdue_slots"`
	Delinquent       []DelinquentContract `json:"delinquent"`
}

// DelinquencyService scans active contracts for overdue installments.
type DelinquencyService struct {
	contractRepo repository.ContractRepository
	scheduleSvc  *ScheduleService
}

func NewDelinquencyService(contractRepo repository.ContractRepository, scheduleSvc *ScheduleService) *DelinquencyService {
	return &DelinquencyService{
		contractRepo: contractRepo,
		scheduleSvc:  scheduleSvc,
	}
}

// ScanOverdue rebuilds the schedule of every active contract and publishes the
// overdue totals as gauges.
func (s *DelinquencyService) ScanOverdue(ctx context.Context) (*DelinquencyReport, error) {
	report := &DelinquencyReport{Delinquent: []DelinquentContract{}}
	log := logger.Ctx(ctx)

	err := s.contractRepo.EachActiveBatch(ctx, delinquencyBatchSize, func(batch []models.Contract) error {
		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			contract := &batch[i]
			cs := s.scheduleSvc.build(ctx, contract, contract.Payments, sourceScan)
			report.ContractsScanned++

			d := summarizeDelinquency(cs)
			if d.OverdueSlots == 0 {
				continue
			}
			report.OverdueSlots += d.OverdueSlots
			report.Delinquent = append(report.Delinquent, d)
			log.Info("Contract has overdue installments",
				slog.Uint64("contract_id", uint64(d.ContractID)),
				slog.Int("overdue_slots", d.OverdueSlots),
				slog.String("overdue_amount", d.OverdueAmount.StringFixed(2)),
				slog.Int("max_delay_days", d.MaxDelayDays),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OverdueSlots.Set(float64(report.OverdueSlots))
	metrics.OverdueContracts.Set(float64(len(report.Delinquent)))
	log.Info("Delinquency scan finished",
		slog.Int("contracts", report.ContractsScanned),
		slog.Int("delinquent", len(report.Delinquent)),
		slog.Int("overdue_slots", report.OverdueSlots),
	)
	return report, nil
}

func summarizeDelinquency(cs *ContractSchedule) DelinquentContract {
	d := DelinquentContract{
		ContractID:    cs.Contract.ID,
		ApplicantName: cs.Contract.ApplicantName,
		OverdueAmount: decimal.Zero,
	}
	for _, slot := range cs.Schedule.Slots {
		if !slot.IsOverdue() {
			continue
		}
		d.OverdueSlots++
		d.OverdueAmount = d.OverdueAmount.Add(slot.NeedToPay)
		if slot.DelayDays > d.MaxDelayDays {
			d.MaxDelayDays = slot.DelayDays
		}
	}
	return d
}
