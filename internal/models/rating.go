package models

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Rating bounds accepted from the collector prompt
const (
	MinRatingScore = 1
	MaxRatingScore = 10
)

// ErrInvalidScore is returned for ratings outside MinRatingScore..MaxRatingScore
var ErrInvalidScore = errors.New("invalid rating score")

// PlayerRating is a row of the player_ratings table
type PlayerRating struct {
	ID         int64     `db:"id"`
	MatchID    int64     `db:"match_id"` // provider fixture id
	PlayerName string    `db:"player_name"`
	Score      int       `db:"score"`
	CreatedAt  time.Time `db:"created_at"`
}

// Validate checks the score range and that a player is named
func (r *PlayerRating) Validate() error {
	if r.PlayerName == "" {
		return errors.New("player name is required")
	}
	if r.Score < MinRatingScore || r.Score > MaxRatingScore {
		return errors.Wrapf(ErrInvalidScore, "score %d not in %d-%d", r.Score, MinRatingScore, MaxRatingScore)
	}
	return nil
}
