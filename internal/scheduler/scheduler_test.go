package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aura/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // 처음 N번 실패
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler(maxRetries int) *Scheduler {
	return New(logger.Nop(), Options{MaxRetries: maxRetries, RetryDelay: time.Millisecond})
}

func TestAddJobRejectsDuplicatesAndBadSchedules(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "0 0 * * * *"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "0 0 * * * *"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "b", schedule: "not a cron"}))

	assert.Equal(t, []string{"a"}, s.Jobs())
}

func TestRunNowRetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler(3)
	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)
	assert.Equal(t, int32(3), job.calls.Load())
}

func TestRunNowGivesUpAfterMaxRetries(t *testing.T) {
	s := newTestScheduler(1)
	job := &fakeJob{name: "broken", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "transient", result.Error)

	stats := s.Stats()["broken"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	assert.Zero(t, stats.SuccessRate)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunNowStopsRetryingOnCancel(t *testing.T) {
	s := New(logger.Nop(), Options{MaxRetries: 5, RetryDelay: time.Hour})
	job := &fakeJob{name: "slow", schedule: "@daily", failures: 10}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunNow(ctx, "slow")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, context.Canceled.Error(), result.Error)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := newTestScheduler(0)
	_, err := s.RunNow(context.Background(), "missing")
	assert.Error(t, err)

	_, err = s.History("missing")
	assert.Error(t, err)
}

func TestScheduledRun(t *testing.T) {
	s := newTestScheduler(0)
	job := &fakeJob{name: "tick", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return job.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	h, err := s.History("tick")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(h.Latest(10)) >= 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, h.Latest(1)[0].Success)
}

func TestJobHistoryLimit(t *testing.T) {
	h := &JobHistory{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < historyLimit+20; i++ {
		h.Add(JobResult{JobName: "x", StartTime: base.Add(time.Duration(i) * time.Minute), Success: i%2 == 0})
	}

	all := h.Latest(1000)
	require.Len(t, all, historyLimit)
	assert.Equal(t, base.Add(20*time.Minute), all[0].StartTime)

	stats := h.Stats("x", "@daily")
	assert.Equal(t, historyLimit, stats.TotalRuns)
	assert.Equal(t, historyLimit/2, stats.SuccessCount)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
	assert.Equal(t, base.Add(time.Duration(historyLimit+19)*time.Minute), *stats.LastRun)
}

func TestKVFields(t *testing.T) {
	fields := kvFields([]interface{}{"entry", 1, "next", "soon", "dangling"})
	assert.Equal(t, map[string]interface{}{"entry": 1, "next": "soon"}, fields)
}
