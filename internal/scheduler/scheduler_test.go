package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingJob(calls *int32, err error) Job {
	return func(ctx context.Context) error {
		atomic.AddInt32(calls, 1)
		return err
	}
}

func TestJobType_String(t *testing.T) {
	assert.Equal(t, "startup", JobTypeStartup.String())
	assert.Equal(t, "daily", JobTypeDaily.String())
	assert.Equal(t, "manual", JobTypeManual.String())
	assert.Equal(t, "unknown", JobType(42).String())
}

func TestScheduler_DailyRunOncePerDay(t *testing.T) {
	var calls int32
	s := NewScheduler(countingJob(&calls, nil), 6, false, logrus.New())
	ctx := context.Background()

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	// Test before the configured hour
	s.executeScheduledJobs(ctx, day.Add(5*time.Hour+59*time.Minute))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	// Test every minute of the configured hour
	for minute := 0; minute < 60; minute++ {
		s.executeScheduledJobs(ctx, day.Add(6*time.Hour+time.Duration(minute)*time.Minute))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Test the next day
	s.executeScheduledJobs(ctx, day.AddDate(0, 0, 1).Add(6*time.Hour))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_NegativeHourDisablesDailyRun(t *testing.T) {
	var calls int32
	s := NewScheduler(countingJob(&calls, nil), -1, false, logrus.New())

	for hour := 0; hour < 24; hour++ {
		s.executeScheduledJobs(context.Background(), time.Date(2026, 3, 14, hour, 0, 0, 0, time.Local))
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestScheduler_RunNow(t *testing.T) {
	var calls int32
	s := NewScheduler(countingJob(&calls, errors.New("publish failed")), -1, false, logrus.New())

	err := s.RunNow(context.Background())
	assert.EqualError(t, err, "publish failed")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	last, lastErr := s.LastRun()
	assert.False(t, last.IsZero())
	assert.EqualError(t, lastErr, "publish failed")
}

func TestScheduler_RunNowWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := NewScheduler(func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}, -1, false, logrus.New())

	done := make(chan error, 1)
	go func() { done <- s.RunNow(context.Background()) }()
	<-started

	assert.ErrorIs(t, s.RunNow(context.Background()), ErrJobRunning)

	close(release)
	require.NoError(t, <-done)
}

func TestScheduler_StartupRun(t *testing.T) {
	ran := make(chan JobType, 1)
	s := NewScheduler(func(ctx context.Context) error {
		ran <- JobTypeStartup
		return nil
	}, -1, true, logrus.New())

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("startup run did not happen")
	}
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	cancelled := make(chan struct{})
	s := NewScheduler(func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}, -1, true, nil)

	s.Start()
	s.Stop()

	select {
	case <-cancelled:
	default:
		t.Fatal("job context was not cancelled on stop")
	}
}
