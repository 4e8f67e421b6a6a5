// Package seed inserts a fixed set of sample matches for local development.
package seed

import (
	"context"
	"time"

	"partidos/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Inserter stores one match row
type Inserter interface {
	Insert(ctx context.Context, match *models.Match) error
}

type sample struct {
	label  string
	home   string
	away   string
	offset time.Duration
}

var samples = []sample{
	{"Liga Profesional", "Talleres", "Belgrano", -3 * time.Hour},
	{"Liga Profesional", "River Plate", "Boca Juniors", 2 * time.Hour},
	{"Liga Profesional", "Racing Club", "Independiente", 0},
	{"La Liga", "Real Madrid", "Barcelona", -24 * time.Hour},
	{"La Liga", "Atletico Madrid", "Sevilla", 24 * time.Hour},
	{"Premier League", "Manchester City", "Liverpool", -5 * time.Hour},
	{"Premier League", "Arsenal", "Chelsea", 48 * time.Hour},
}

// SampleMatches returns the sample rows with kickoffs relative to now.
// They carry no fixture id.
func SampleMatches(now time.Time) []*models.Match {
	matches := make([]*models.Match, 0, len(samples))
	for _, s := range samples {
		matches = append(matches, &models.Match{
			CompetitionLabel: s.label,
			HomeTeam:         s.home,
			AwayTeam:         s.away,
			KickoffTime:      now.Add(s.offset),
		})
	}
	return matches
}

// Run inserts the sample rows one by one. A failed insert is logged and
// counted; the rest are still attempted.
func Run(ctx context.Context, store Inserter, now time.Time) (saved, failed int) {
	for _, m := range SampleMatches(now) {
		if err := store.Insert(ctx, m); err != nil {
			log.Error().
				Err(err).
				Str("home", m.HomeTeam).
				Str("away", m.AwayTeam).
				Msg("Failed to insert sample match")
			failed++
			continue
		}
		log.Info().
			Str("competition", m.CompetitionLabel).
			Str("home", m.HomeTeam).
			Str("away", m.AwayTeam).
			Msg("Sample match inserted")
		saved++
	}
	return saved, failed
}
