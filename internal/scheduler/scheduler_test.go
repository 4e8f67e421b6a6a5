package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"partidos/ingestion/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu        sync.Mutex
	syncs     int
	refreshes []time.Time
}

func (f *fakeRunner) Run(context.Context) ingest.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
	return ingest.Report{Kind: ingest.KindSync, Succeeded: 5}
}

func (f *fakeRunner) RefreshScores(_ context.Context, date time.Time) ingest.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes = append(f.refreshes, date)
	return ingest.Report{Kind: ingest.KindRefresh, Succeeded: 1}
}

type fakeStore struct {
	values map[string]interface{}
	ttl    time.Duration
	err    error
}

func (f *fakeStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	f.ttl = ttl
	return nil
}

func testOptions() Options {
	return Options{FixtureSyncCron: "0 3 * * *", ScoreRefreshCron: "*/15 * * * *", ReportTTL: time.Hour}
}

func TestRunSync_StoresReport(t *testing.T) {
	runner := &fakeRunner{}
	store := &fakeStore{values: map[string]interface{}{}}
	s := NewScheduler(testOptions(), runner, store)

	report := s.RunSync(context.Background())

	assert.Equal(t, 1, runner.syncs)
	assert.Equal(t, 5, report.Succeeded)
	assert.Equal(t, report, store.values[LastReportKey])
	assert.Equal(t, time.Hour, store.ttl)
}

func TestRunRefresh_UsesToday(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(testOptions(), runner, nil)
	s.now = func() time.Time { return time.Date(2025, 1, 25, 23, 30, 0, 0, time.UTC) }

	report := s.RunRefresh(context.Background())

	assert.Equal(t, ingest.KindRefresh, report.Kind)
	require.Len(t, runner.refreshes, 1)
	assert.Equal(t, "2025-01-25", runner.refreshes[0].Format("2006-01-02"))
}

func TestRunSync_StoreFailureIsIgnored(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(testOptions(), runner, &fakeStore{err: errors.New("redis down")})

	report := s.RunSync(context.Background())
	assert.Equal(t, 5, report.Succeeded)
}

func TestStart_RegistersJobs(t *testing.T) {
	s := NewScheduler(testOptions(), &fakeRunner{}, nil)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
}

func TestStart_InvalidSchedule(t *testing.T) {
	opts := testOptions()
	opts.ScoreRefreshCron = "every fifteen minutes"
	s := NewScheduler(opts, &fakeRunner{}, nil)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to schedule score refresh")
}
