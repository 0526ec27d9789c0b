package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sjperalta/fintera-schedule/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs queued jobs on a fixed pool of goroutines and owns the cron
// scheduler for recurring jobs.
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan Job
	cron    *cron.Cron
	stats   WorkerStats
	statsMu sync.RWMutex
}

// WorkerStats holds statistics about the worker. CompletedJobs counts every
// finished job; FailedJobs is the subset that returned an error or panicked.
type WorkerStats struct {
	ActiveJobs    int        `json:"active_jobs"`
	CompletedJobs int64      `json:"completed_jobs"`
	FailedJobs    int64      `json:"failed_jobs"`
	QueueLength   int        `json:"queue_length"`
	Workers       int        `json:"workers"`
	ScheduledJobs int        `json:"scheduled_jobs"`
	NextRun       *time.Time `json:"next_run,omitempty"`
}

// NewWorker creates a worker with N concurrent processors. Cron expressions
// are evaluated in loc.
func NewWorker(numWorkers int, loc *time.Location) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan Job, 100),
		cron:   cron.New(cron.WithLocation(loc)),
	}
	w.stats.Workers = numWorkers

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}
	w.cron.Start()

	return w
}

// Enqueue adds a job to be processed by the worker pool
func (w *Worker) Enqueue(job Job) {
	select {
	case w.queue <- job:
	default:
		logger.Warn("[Worker] Queue full, running job synchronously")
		w.run("worker", -1, job)
	}
}

// process handles jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run("worker", workerID, job)
		}
	}
}

// ScheduleCron registers a recurring job on a standard five-field cron
// expression. Overlapping runs are skipped.
func (w *Worker) ScheduleCron(spec, name string, job Job) error {
	skip := cron.SkipIfStillRunning(cron.DiscardLogger)
	_, err := w.cron.AddJob(spec, skip(cron.FuncJob(func() {
		if w.ctx.Err() != nil {
			return
		}
		w.run(name, -1, job)
	})))
	if err != nil {
		return fmt.Errorf("invalid schedule for %s: %w", name, err)
	}
	return nil
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after the interval (not at startup).
func (w *Worker) ScheduleEvery(interval time.Duration, name string, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run(name, -1, job)
			}
		}
	}()
}

func (w *Worker) run(name string, workerID int, job Job) {
	log := logger.Log.With(slog.String("job", name))
	if workerID >= 0 {
		log = log.With(slog.Int("worker", workerID))
	}

	w.trackJobStart()
	defer w.trackJobEnd()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panic", slog.Any("panic", r))
			w.trackJobFailure()
		}
	}()

	start := time.Now()
	if err := job(w.ctx); err != nil {
		log.Error("Job failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		w.trackJobFailure()
		return
	}
	log.Info("Job completed", slog.Duration("elapsed", time.Since(start)))
}

// Shutdown stops the scheduler, cancels running jobs and waits for them
func (w *Worker) Shutdown() {
	<-w.cron.Stop().Done()
	w.cancel()
	close(w.queue)
	w.wg.Wait()
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	stats := w.stats
	w.statsMu.RUnlock()

	stats.QueueLength = len(w.queue)
	entries := w.cron.Entries()
	stats.ScheduledJobs = len(entries)
	for _, e := range entries {
		if e.Next.IsZero() {
			continue
		}
		if stats.NextRun == nil || e.Next.Before(*stats.NextRun) {
			next := e.Next
			stats.NextRun = &next
		}
	}
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
