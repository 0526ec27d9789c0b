package services

import (
	"github.com/sjperalta/fintera-schedule/internal/jobs"
)

// Scheduled job names
const DelinquencyScanJobName = "delinquency-scan"

type JobService struct {
	worker      *jobs.Worker
	delinquency *DelinquencyService
}

func NewJobService(worker *jobs.Worker, delinquency *DelinquencyService) *JobService {
	return &JobService{
		worker:      worker,
		delinquency: delinquency,
	}
}

func (s *JobService) GetStatus() jobs.WorkerStats {
	return s.worker.GetStats()
}

// ScheduleDelinquencyScan registers the recurring overdue scan.
func (s *JobService) ScheduleDelinquencyScan(spec string) error {
	return s.worker.ScheduleCron(spec, DelinquencyScanJobName, s.delinquency.DelinquencyScanJob())
}

// TriggerDelinquencyScan queues an immediate overdue scan on the worker pool.
func (s *JobService) TriggerDelinquencyScan() {
	s.worker.Enqueue(s.delinquency.DelinquencyScanJob())
}
