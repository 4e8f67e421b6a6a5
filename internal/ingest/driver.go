// Package ingest runs the fixture sync: fetch each competition's fixtures,
// normalize them and upsert them into the matches table.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"partidos/ingestion/internal/competition"
	"partidos/ingestion/internal/metrics"
	"partidos/ingestion/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// MaxFixturesPerCompetition caps how many fetched fixtures a run stores per competition
const MaxFixturesPerCompetition = 5

// Report kinds
const (
	KindSync    = "fixture_sync"
	KindRefresh = "score_refresh"
)

// Fetcher returns raw provider fixtures in provider order
type Fetcher interface {
	FetchFixtures(ctx context.Context, league, season int, window competition.DateWindow) ([]json.RawMessage, error)
	FetchFixturesByDate(ctx context.Context, league, season int, date time.Time) ([]json.RawMessage, error)
}

// Sink persists normalized matches keyed by fixture id
type Sink interface {
	Upsert(ctx context.Context, match *models.Match) error
	Exists(ctx context.Context, fixtureID int64) (bool, error)
}

// Driver runs the sync over a set of competitions
type Driver struct {
	Fetcher      Fetcher
	Sink         Sink
	Competitions []competition.Competition
	Window       competition.DateWindow
}

// NewDriver creates a driver over the fixed competition table and sync window
func NewDriver(fetcher Fetcher, sink Sink) *Driver {
	return &Driver{
		Fetcher:      fetcher,
		Sink:         sink,
		Competitions: competition.Table,
		Window:       competition.SyncWindow,
	}
}

// Run syncs every competition in order. Fetch failures leave a competition
// empty and item failures are recorded; neither stops the run.
func (d *Driver) Run(ctx context.Context) Report {
	report := Report{Kind: KindSync, StartedAt: time.Now()}

	log.Info().
		Int("competitions", len(d.Competitions)).
		Str("from", d.Window.FromParam()).
		Str("to", d.Window.ToParam()).
		Msg("Starting fixture sync")

	for _, comp := range d.Competitions {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("Fixture sync interrupted")
			break
		}

		cr := CompetitionReport{Competition: comp}

		raw, err := d.Fetcher.FetchFixtures(ctx, comp.ID, comp.Season, d.Window)
		if err != nil {
			log.Error().
				Err(err).
				Int("league", comp.ID).
				Str("competition", comp.Label).
				Msg("Failed to fetch fixtures")
			metrics.RecordError("ingest", "fetch")
			cr.FetchError = err.Error()
			raw = nil
		}
		cr.Fetched = len(raw)

		if len(raw) > MaxFixturesPerCompetition {
			raw = raw[:MaxFixturesPerCompetition]
		}

		for _, item := range raw {
			cr.Outcomes = append(cr.Outcomes, d.Process(ctx, comp, item))
		}

		log.Info().
			Str("competition", comp.Label).
			Int("fetched", cr.Fetched).
			Int("stored", cr.Succeeded()).
			Int("failed", cr.Failed()).
			Msg("Competition synced")

		report.add(cr)
	}

	report.Duration = time.Since(report.StartedAt)
	metrics.RecordSync(report.Kind, report.Status(), report.Duration.Seconds())

	log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("Fixture sync complete")

	return report
}

// Process normalizes one raw fixture and upserts it
func (d *Driver) Process(ctx context.Context, comp competition.Competition, raw json.RawMessage) Outcome {
	fixture, err := models.DecodeFixture(raw)
	if err != nil {
		return d.fail(comp, Outcome{Stage: StageNormalize, Err: err})
	}
	return d.store(ctx, comp, fixture)
}

func (d *Driver) store(ctx context.Context, comp competition.Competition, fixture *models.FixtureInput) Outcome {
	out := Outcome{FixtureID: fixture.FixtureID(), Stage: StageNormalize}

	match, err := fixture.ToMatch(comp.Label)
	if err != nil {
		out.Err = err
		return d.fail(comp, out)
	}

	out.Stage = StageUpsert
	if err := d.Sink.Upsert(ctx, match); err != nil {
		out.Err = errors.Wrapf(err, "fixture %d", out.FixtureID)
		return d.fail(comp, out)
	}

	metrics.RecordFixture(comp.Label, "stored")
	log.Debug().
		Int64("fixture_id", out.FixtureID).
		Str("home", match.HomeTeam).
		Str("away", match.AwayTeam).
		Int("home_goals", match.HomeGoals).
		Int("away_goals", match.AwayGoals).
		Msg("Fixture stored")

	return out
}

func (d *Driver) fail(comp competition.Competition, out Outcome) Outcome {
	metrics.RecordFixture(comp.Label, string(out.Stage)+"_failed")
	log.Error().
		Err(out.Err).
		Int64("fixture_id", out.FixtureID).
		Str("competition", comp.Label).
		Str("stage", string(out.Stage)).
		Msg("Failed to ingest fixture")
	return out
}

// RefreshScores re-fetches each competition's fixtures played on date and
// re-upserts the finished ones that are already stored. No cap applies.
func (d *Driver) RefreshScores(ctx context.Context, date time.Time) Report {
	report := Report{Kind: KindRefresh, StartedAt: time.Now()}

	for _, comp := range d.Competitions {
		if ctx.Err() != nil {
			break
		}

		cr := CompetitionReport{Competition: comp}

		raw, err := d.Fetcher.FetchFixturesByDate(ctx, comp.ID, comp.Season, date)
		if err != nil {
			log.Error().
				Err(err).
				Str("competition", comp.Label).
				Msg("Failed to fetch fixtures by date")
			cr.FetchError = err.Error()
			raw = nil
		}
		cr.Fetched = len(raw)

		for _, item := range raw {
			fixture, err := models.DecodeFixture(item)
			if err != nil {
				cr.Outcomes = append(cr.Outcomes, d.fail(comp, Outcome{Stage: StageNormalize, Err: err}))
				continue
			}
			if !fixture.IsFinished() {
				continue
			}

			exists, err := d.Sink.Exists(ctx, fixture.FixtureID())
			if err != nil {
				cr.Outcomes = append(cr.Outcomes, d.fail(comp, Outcome{
					FixtureID: fixture.FixtureID(),
					Stage:     StageUpsert,
					Err:       errors.Wrap(err, "lookup stored fixture"),
				}))
				continue
			}
			if !exists {
				continue
			}

			cr.Outcomes = append(cr.Outcomes, d.store(ctx, comp, fixture))
		}

		report.add(cr)
	}

	report.Duration = time.Since(report.StartedAt)
	metrics.RecordSync(report.Kind, report.Status(), report.Duration.Seconds())

	log.Info().
		Str("date", date.Format(competition.DateLayout)).
		Int("updated", report.Succeeded).
		Int("failed", report.Failed).
		Msg("Score refresh complete")

	return report
}
