package scheduler

import (
	"context"
	"fmt"
	"time"

	"partidos/ingestion/internal/ingest"
	"partidos/ingestion/internal/logging"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// LastReportKey is where the most recent run report is kept in the cache
const LastReportKey = "sync:last_report"

// Runner is the sync driver as seen by the scheduler
type Runner interface {
	Run(ctx context.Context) ingest.Report
	RefreshScores(ctx context.Context, date time.Time) ingest.Report
}

// ReportStore keeps the last run report
type ReportStore interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Options holds the job schedules
type Options struct {
	FixtureSyncCron  string
	ScoreRefreshCron string
	ReportTTL        time.Duration
}

// Scheduler manages the background sync jobs:
// - fixture sync on FixtureSyncCron
// - score refresh of today's finished fixtures on ScoreRefreshCron
type Scheduler struct {
	opts    Options
	runner  Runner
	reports ReportStore
	cron    *cron.Cron
	now     func() time.Time
}

// NewScheduler creates a new scheduler instance. reports may be nil.
func NewScheduler(opts Options, runner Runner, reports ReportStore) *Scheduler {
	return &Scheduler{
		opts:    opts,
		runner:  runner,
		reports: reports,
		cron: cron.New(
			cron.WithLogger(logging.CronLogger{}),
			cron.WithChain(
				cron.Recover(logging.CronLogger{}),
				cron.SkipIfStillRunning(logging.CronLogger{}),
			),
		),
		now: time.Now,
	}
}

// Start registers the jobs and starts the cron scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.opts.FixtureSyncCron, func() {
		s.RunSync(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule fixture sync: %w", err)
	}

	if _, err := s.cron.AddFunc(s.opts.ScoreRefreshCron, func() {
		s.RunRefresh(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule score refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("fixture_sync", s.opts.FixtureSyncCron).
		Str("score_refresh", s.opts.ScoreRefreshCron).
		Msg("Jobs scheduled")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// RunSync runs the fixture sync once
func (s *Scheduler) RunSync(ctx context.Context) ingest.Report {
	log.Info().Msg("Running fixture sync...")
	report := s.runner.Run(ctx)
	s.store(ctx, report)
	return report
}

// RunRefresh refreshes the scores of today's finished fixtures
func (s *Scheduler) RunRefresh(ctx context.Context) ingest.Report {
	today := s.now().UTC()
	log.Debug().Str("date", today.Format("2006-01-02")).Msg("Running score refresh...")
	report := s.runner.RefreshScores(ctx, today)
	s.store(ctx, report)
	return report
}

func (s *Scheduler) store(ctx context.Context, report ingest.Report) {
	if s.reports == nil {
		return
	}
	if err := s.reports.SetJSON(ctx, LastReportKey, report, s.opts.ReportTTL); err != nil {
		log.Warn().Err(err).Str("key", LastReportKey).Msg("Failed to store run report")
	}
}
