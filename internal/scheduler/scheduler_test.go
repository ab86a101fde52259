package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu           sync.Mutex
	closedAt     []time.Time
	notifCutoff  []time.Time
	tokenCutoffs []time.Time
}

func (f *fakeStore) CloseExpiredJobs(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closedAt = append(f.closedAt, now)
	return 2, nil
}

func (f *fakeStore) PurgeNotifications(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifCutoff = append(f.notifCutoff, cutoff)
	return 0, nil
}

func (f *fakeStore) PurgeDisabledTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCutoffs = append(f.tokenCutoffs, cutoff)
	return 0, errors.New("boom")
}

func (f *fakeStore) calls() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.closedAt), len(f.notifCutoff), len(f.tokenCutoffs)
}

func TestSweepsRunImmediatelyWithCutoffs(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s := NewScheduler()
	s.now = func() time.Time { return now }

	store := &fakeStore{}
	s.Sweeps(store, time.Hour, 24*time.Hour, 90*24*time.Hour)

	require.Eventually(t, func() bool {
		a, b, c := store.calls()
		return a == 1 && b == 1 && c == 1
	}, time.Second, 5*time.Millisecond)

	s.Stop()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, now, store.closedAt[0])
	assert.Equal(t, now.Add(-90*24*time.Hour), store.notifCutoff[0])
	assert.Equal(t, now.Add(-30*24*time.Hour), store.tokenCutoffs[0])
}

func TestJobRepeatsUntilStopped(t *testing.T) {
	s := NewScheduler()

	var runs int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context, now time.Time) (int64, error) {
		atomic.AddInt32(&runs, 1)
		return 1, nil
	})

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := atomic.LoadInt32(&runs)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs))
	assert.Equal(t, false, s.GetStatus()["running"])
}

func TestDisabledAndReplacedJobs(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	s.AddJob("never", 0, func(ctx context.Context, now time.Time) (int64, error) {
		t.Error("disabled job ran")
		return 0, nil
	})
	assert.Equal(t, 0, s.GetStatus()["active_jobs"])

	s.AddJob("once", time.Hour, func(ctx context.Context, now time.Time) (int64, error) {
		return 0, nil
	})
	assert.Equal(t, 1, s.GetStatus()["active_jobs"])

	s.AddJob("once", 2*time.Hour, func(ctx context.Context, now time.Time) (int64, error) {
		return 0, nil
	})
	status := s.GetStatus()
	assert.Equal(t, 1, status["active_jobs"])
	once := status["jobs"].(map[string]interface{})["once"].(map[string]interface{})
	assert.Equal(t, "2h0m0s", once["interval"])
}

func TestFailedJobRecordsError(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	s.AddJob("broken", time.Hour, func(ctx context.Context, now time.Time) (int64, error) {
		return 0, errors.New("database unavailable")
	})

	require.Eventually(t, func() bool {
		jobs := s.GetStatus()["jobs"].(map[string]interface{})
		status, ok := jobs["broken"].(map[string]interface{})
		return ok && status["last_error"] == "database unavailable"
	}, time.Second, 5*time.Millisecond)
}
