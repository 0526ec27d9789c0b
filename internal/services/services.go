package services

import (
	"context"
	"log/slog"

	"github.com/sjperalta/fintera-schedule/internal/cache"
	"github.com/sjperalta/fintera-schedule/internal/config"
	"github.com/sjperalta/fintera-schedule/internal/jobs"
	"github.com/sjperalta/fintera-schedule/internal/repository"
	"github.com/sjperalta/fintera-schedule/pkg/logger"
)

// Services holds all service instances
type Services struct {
	Schedule    *ScheduleService
	Export      *ExportService
	Statement   *StatementService
	Delinquency *DelinquencyService
	Job         *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, c cache.Cache, cfg *config.Config) *Services {
	scheduleSvc := NewScheduleService(repos.Contract, repos.Payment, c, cfg.ScheduleCacheTTL, cfg.BusinessTimezone)
	delinquencySvc := NewDelinquencyService(repos.Contract, scheduleSvc)

	return &Services{
		Schedule:    scheduleSvc,
		Export:      NewExportService(scheduleSvc),
		Statement:   NewStatementService(scheduleSvc),
		Delinquency: delinquencySvc,
		Job:         NewJobService(worker, delinquencySvc),
	}
}

// DelinquencyScanJob adapts ScanOverdue to the worker's job signature.
func (s *DelinquencyService) DelinquencyScanJob() jobs.Job {
	return func(ctx context.Context) error {
		report, err := s.ScanOverdue(ctx)
		if err != nil {
			return err
		}
		if len(report.Delinquent) > 0 {
			logger.Ctx(ctx).Warn("Delinquent contracts found",
				slog.Int("contracts", len(report.Delinquent)),
				slog.Int("overdue_slots", report.OverdueSlots),
			)
		}
		return nil
	}
}
