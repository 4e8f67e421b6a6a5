package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Match is a row of the matches table
type Match struct {
	ID               uuid.UUID      `db:"id"`
	FixtureID        sql.NullInt64  `db:"fixture_id"` // null for hand-seeded rows
	CompetitionLabel string         `db:"competition_label"`
	HomeTeam         string         `db:"home_team"`
	AwayTeam         string         `db:"away_team"`
	KickoffTime      time.Time      `db:"kickoff_time"`
	HomeLogo         sql.NullString `db:"home_logo"`
	AwayLogo         sql.NullString `db:"away_logo"`
	HomeGoals        int            `db:"home_goals"`
	AwayGoals        int            `db:"away_goals"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SetFixtureID sets the provider key
func (m *Match) SetFixtureID(id int64) {
	m.FixtureID = sql.NullInt64{Int64: id, Valid: true}
}

// HasFixtureID reports whether the row is keyed by a provider fixture
func (m *Match) HasFixtureID() bool {
	return m.FixtureID.Valid
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
