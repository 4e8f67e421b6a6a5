package main

import (
	"bytes"
	"testing"
	"time"

	"partidos/ingestion/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintMatches(t *testing.T) {
	id := uuid.MustParse("6f1c2b4e-8d7a-4e0f-9b3c-2a1d5e6f7a8b")
	synced := &models.Match{
		ID:          id,
		HomeTeam:    "River Plate",
		AwayTeam:    "Boca Juniors",
		HomeGoals:   2,
		AwayGoals:   1,
		KickoffTime: time.Date(2025, 1, 25, 21, 0, 0, 0, time.UTC),
	}
	synced.SetFixtureID(1158661)
	seeded := &models.Match{ID: id, HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffTime: time.Date(2025, 1, 27, 20, 0, 0, 0, time.UTC)}

	var buf bytes.Buffer
	printMatches(&buf, []*models.Match{synced, seeded})

	assert.Equal(t,
		"River Plate 2 - 1 Boca Juniors\n"+
			"  ID: 6f1c2b4e-8d7a-4e0f-9b3c-2a1d5e6f7a8b, Fixture: 1158661, Kickoff: 2025-01-25T21:00:00Z\n\n"+
			"Arsenal 0 - 0 Chelsea\n"+
			"  ID: 6f1c2b4e-8d7a-4e0f-9b3c-2a1d5e6f7a8b, Fixture: -, Kickoff: 2025-01-27T20:00:00Z\n\n",
		buf.String())
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	printMatches(&buf, nil)
	assert.Equal(t, "No matches stored\n", buf.String())
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)

	_, err = parseSteps([]string{"x"})
	assert.Error(t, err)
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"sync", "refresh", "list", "clear", "seed", "rate", "migrate"}, names)

	sync, _, err := root.Find([]string{"sync"})
	require.NoError(t, err)
	assert.NotNil(t, sync.Flags().Lookup("dry-run"))

	list, _, err := root.Find([]string{"list"})
	require.NoError(t, err)
	assert.Equal(t, "3", list.Flags().Lookup("limit").DefValue)

	rate, _, err := root.Find([]string{"rate"})
	require.NoError(t, err)
	assert.Equal(t, "1158661", rate.Flags().Lookup("fixture").DefValue)
}
