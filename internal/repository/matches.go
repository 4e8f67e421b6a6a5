package repository

import (
	"context"
	"errors"
	"fmt"

	"partidos/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ErrMatchNotFound is returned when no row matches a lookup
var ErrMatchNotFound = errors.New("match not found")

const matchColumns = `
	id, fixture_id, competition_label, home_team, away_team, kickoff_time,
	home_logo, away_logo, home_goals, away_goals, created_at, updated_at`

// MatchRepository handles matches table operations
type MatchRepository struct {
	db *Database
}

// Upsert inserts a match or overwrites the row holding the same fixture_id
func (r *MatchRepository) Upsert(ctx context.Context, match *models.Match) (err error) {
	defer observe("upsert", "matches")(&err)

	if !match.HasFixtureID() {
		return fmt.Errorf("failed to upsert match: fixture_id is required")
	}

	query := `
		INSERT INTO matches (
			fixture_id, competition_label, home_team, away_team, kickoff_time,
			home_logo, away_logo, home_goals, away_goals
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (fixture_id) DO UPDATE SET
			competition_label = EXCLUDED.competition_label,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			kickoff_time = EXCLUDED.kickoff_time,
			home_logo = EXCLUDED.home_logo,
			away_logo = EXCLUDED.away_logo,
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = r.db.Pool.QueryRow(
		ctx, query,
		match.FixtureID, match.CompetitionLabel, match.HomeTeam, match.AwayTeam, match.KickoffTime,
		match.HomeLogo, match.AwayLogo, match.HomeGoals, match.AwayGoals,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	log.Debug().
		Str("id", match.ID.String()).
		Int64("fixture_id", match.FixtureID.Int64).
		Str("home", match.HomeTeam).
		Str("away", match.AwayTeam).
		Msg("Match upserted")

	return nil
}

// Insert adds a match without conflict handling (seeded rows have no fixture_id)
func (r *MatchRepository) Insert(ctx context.Context, match *models.Match) (err error) {
	defer observe("insert", "matches")(&err)

	query := `
		INSERT INTO matches (
			fixture_id, competition_label, home_team, away_team, kickoff_time,
			home_logo, away_logo, home_goals, away_goals
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = r.db.Pool.QueryRow(
		ctx, query,
		match.FixtureID, match.CompetitionLabel, match.HomeTeam, match.AwayTeam, match.KickoffTime,
		match.HomeLogo, match.AwayLogo, match.HomeGoals, match.AwayGoals,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return nil
}

// GetByFixtureID retrieves a match by its provider fixture id
func (r *MatchRepository) GetByFixtureID(ctx context.Context, fixtureID int64) (match *models.Match, err error) {
	defer observe("select", "matches")(&err)

	query := `SELECT ` + matchColumns + ` FROM matches WHERE fixture_id = $1`

	match, err = scanMatch(r.db.Pool.QueryRow(ctx, query, fixtureID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: fixture_id=%d", ErrMatchNotFound, fixtureID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// Exists reports whether a row holds fixtureID
func (r *MatchRepository) Exists(ctx context.Context, fixtureID int64) (exists bool, err error) {
	defer observe("exists", "matches")(&err)

	query := `SELECT EXISTS (SELECT 1 FROM matches WHERE fixture_id = $1)`

	if err = r.db.Pool.QueryRow(ctx, query, fixtureID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check match: %w", err)
	}
	return exists, nil
}

// List returns up to limit matches, earliest kickoff first
func (r *MatchRepository) List(ctx context.Context, limit int) (matches []*models.Match, err error) {
	defer observe("select", "matches")(&err)

	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY kickoff_time, created_at LIMIT $1`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// DeleteAll removes every row of the matches table
func (r *MatchRepository) DeleteAll(ctx context.Context) (deleted int64, err error) {
	defer observe("delete", "matches")(&err)

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM matches`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches: %w", err)
	}

	log.Info().Int64("deleted", result.RowsAffected()).Msg("Matches deleted")
	return result.RowsAffected(), nil
}

// Count returns the total number of matches
func (r *MatchRepository) Count(ctx context.Context) (count int, err error) {
	defer observe("count", "matches")(&err)

	if err = r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}

	return count, nil
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.FixtureID, &m.CompetitionLabel, &m.HomeTeam, &m.AwayTeam, &m.KickoffTime,
		&m.HomeLogo, &m.AwayLogo, &m.HomeGoals, &m.AwayGoals, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
