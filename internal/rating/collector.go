// Package rating collects player ratings for a fixture from an interactive prompt.
package rating

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"partidos/ingestion/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// DefaultPerTeam is how many starters of each side are rated
const DefaultPerTeam = 3

// LineupSource returns the lineups of a fixture
type LineupSource interface {
	FetchLineups(ctx context.Context, fixtureID int64) ([]models.LineupInput, error)
}

// RatingStore persists one rating
type RatingStore interface {
	Create(ctx context.Context, rating *models.PlayerRating) error
}

// Collector prompts for a score per starter and stores each valid answer
type Collector struct {
	Lineups LineupSource
	Ratings RatingStore
	In      io.Reader
	Out     io.Writer
	PerTeam int
}

// Result counts what a collection run did
type Result struct {
	Saved   int
	Skipped int
	Failed  int
}

// Collect walks both lineups of fixtureID and asks for a rating per starter.
// Invalid answers skip the player; store failures are counted and the run goes on.
// Input running out ends the run early without an error.
func (c *Collector) Collect(ctx context.Context, fixtureID int64) (Result, error) {
	var res Result

	lineups, err := c.Lineups.FetchLineups(ctx, fixtureID)
	if err != nil {
		return res, errors.Wrapf(err, "lineups for fixture %d", fixtureID)
	}
	if len(lineups) == 0 {
		fmt.Fprintf(c.Out, "No lineups available for fixture %d\n", fixtureID)
		return res, nil
	}

	perTeam := c.PerTeam
	if perTeam <= 0 {
		perTeam = DefaultPerTeam
	}

	scanner := bufio.NewScanner(c.In)
	for _, lineup := range lineups {
		fmt.Fprintf(c.Out, "\nRating: %s\n", lineup.Team.Name)

		for _, player := range lineup.Starters(perTeam) {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}

			fmt.Fprintf(c.Out, "score for %s (%d-%d): ", player.Name, models.MinRatingScore, models.MaxRatingScore)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return res, errors.Wrap(err, "read rating")
				}
				fmt.Fprintln(c.Out)
				return res, nil
			}

			score, err := ParseScore(scanner.Text())
			if err != nil {
				fmt.Fprintf(c.Out, "skipped %s: %v\n", player.Name, err)
				res.Skipped++
				continue
			}

			r := &models.PlayerRating{MatchID: fixtureID, PlayerName: player.Name, Score: score}
			if err := c.Ratings.Create(ctx, r); err != nil {
				log.Error().Err(err).Int64("fixture_id", fixtureID).Str("player", player.Name).Msg("Failed to save rating")
				fmt.Fprintf(c.Out, "failed to save %s: %v\n", player.Name, err)
				res.Failed++
				continue
			}

			fmt.Fprintf(c.Out, "saved: %s got a %d\n", player.Name, score)
			res.Saved++
		}
	}

	return res, nil
}

// ParseScore parses a prompt answer into a score within the accepted range
func ParseScore(input string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errors.Mark(errors.Newf("%q is not a number", strings.TrimSpace(input)), models.ErrInvalidScore)
	}
	if score < models.MinRatingScore || score > models.MaxRatingScore {
		return 0, errors.Wrapf(models.ErrInvalidScore, "score %d not in %d-%d", score, models.MinRatingScore, models.MaxRatingScore)
	}
	return score, nil
}
