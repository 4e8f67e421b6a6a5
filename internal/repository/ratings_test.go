//go:build integration

package repository

import (
	"testing"

	"partidos/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_Create(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	rating := &models.PlayerRating{MatchID: 1158661, PlayerName: "F. Armani", Score: 7}
	require.NoError(t, db.Ratings.Create(ctx, rating))
	assert.NotZero(t, rating.ID)
	assert.False(t, rating.CreatedAt.IsZero())

	// the same player can be rated again
	require.NoError(t, db.Ratings.Create(ctx, &models.PlayerRating{MatchID: 1158661, PlayerName: "F. Armani", Score: 9}))

	ratings, err := db.Ratings.ListByMatch(ctx, 1158661)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, 7, ratings[0].Score)
	assert.Equal(t, 9, ratings[1].Score)
}

func TestRatingRepository_RejectsOutOfRange(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Ratings.Create(ctx, &models.PlayerRating{MatchID: 1, PlayerName: "X", Score: 11})
	assert.ErrorIs(t, err, models.ErrInvalidScore)
}
