package repository

import (
	"context"
	"fmt"

	"partidos/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// RatingRepository handles player_ratings table operations
type RatingRepository struct {
	db *Database
}

// Create inserts a player rating. Ratings are append-only; the same player can
// be rated any number of times for a match.
func (r *RatingRepository) Create(ctx context.Context, rating *models.PlayerRating) (err error) {
	defer observe("insert", "player_ratings")(&err)

	if err = rating.Validate(); err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}

	query := `
		INSERT INTO player_ratings (match_id, player_name, score)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err = r.db.Pool.QueryRow(ctx, query, rating.MatchID, rating.PlayerName, rating.Score).
		Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}

	log.Debug().
		Int64("id", rating.ID).
		Int64("match_id", rating.MatchID).
		Str("player", rating.PlayerName).
		Int("score", rating.Score).
		Msg("Rating created")

	return nil
}

// ListByMatch returns every rating recorded for a fixture, oldest first
func (r *RatingRepository) ListByMatch(ctx context.Context, matchID int64) (ratings []*models.PlayerRating, err error) {
	defer observe("select", "player_ratings")(&err)

	query := `
		SELECT id, match_id, player_name, score, created_at
		FROM player_ratings
		WHERE match_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating models.PlayerRating
		if err := rows.Scan(&rating.ID, &rating.MatchID, &rating.PlayerName, &rating.Score, &rating.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, &rating)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}
