package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_Enqueue(t *testing.T) {
	w := NewWorker(2, time.UTC)
	defer w.Shutdown()

	done := make(chan struct{}, 3)
	w.Enqueue(func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	})
	w.Enqueue(func(ctx context.Context) error {
		done <- struct{}{}
		return errors.New("boom")
	})
	w.Enqueue(func(ctx context.Context) error {
		done <- struct{}{}
		panic("kaboom")
	})

	for i := 0; i < 3; i++ {
		<-done
	}
	waitFor(t, func() bool { return w.GetStats().CompletedJobs == 3 })

	stats := w.GetStats()
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 2, stats.Workers)
}

func TestWorker_ScheduleCron(t *testing.T) {
	w := NewWorker(1, time.UTC)
	defer w.Shutdown()

	err := w.ScheduleCron("not a schedule", "broken", func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	require.NoError(t, w.ScheduleCron("0 6 * * *", "delinquency-scan", func(ctx context.Context) error { return nil }))

	waitFor(t, func() bool { return w.GetStats().NextRun != nil })
	stats := w.GetStats()
	assert.Equal(t, 1, stats.ScheduledJobs)
	assert.Equal(t, 6, stats.NextRun.Hour())
}

func TestWorker_ShutdownCancelsContext(t *testing.T) {
	w := NewWorker(1, nil)
	w.Shutdown()

	assert.Error(t, w.Context().Err())
}
