package repository

import (
	"context"
	"testing"
	"time"

	"partidos/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memMatch(fixtureID int64, kickoff time.Time, homeGoals int) *models.Match {
	m := &models.Match{
		CompetitionLabel: "Liga Profesional",
		HomeTeam:         "River Plate",
		AwayTeam:         "Boca Juniors",
		KickoffTime:      kickoff,
		HomeGoals:        homeGoals,
	}
	if fixtureID != 0 {
		m.SetFixtureID(fixtureID)
	}
	return m
}

func TestMatchStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := NewMatchStore()
	kickoff := time.Date(2025, 1, 25, 21, 0, 0, 0, time.UTC)

	first := memMatch(10, kickoff, 0)
	require.NoError(t, s.Upsert(ctx, first))

	second := memMatch(10, kickoff, 3)
	require.NoError(t, s.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := s.GetByFixtureID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.HomeGoals)

	assert.Error(t, s.Upsert(ctx, memMatch(0, kickoff, 0)))
}

func TestMatchStore_InsertListDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMatchStore()
	base := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, memMatch(0, base.Add(2*time.Hour), 0)))
	require.NoError(t, s.Insert(ctx, memMatch(0, base, 0)))
	require.NoError(t, s.Insert(ctx, memMatch(7, base.Add(time.Hour), 0)))
	assert.Error(t, s.Insert(ctx, memMatch(7, base, 0)), "duplicate fixture_id")

	all, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].KickoffTime.Equal(base))
	assert.Equal(t, int64(7), all[1].FixtureID.Int64)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	ok, err := s.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	ok, err = s.Exists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetByFixtureID(ctx, 7)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
