package models

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const finishedFixture = `{
	"fixture": {"id": 1158661, "date": "2025-01-25T21:15:00+00:00", "status": {"short": "FT", "long": "Match Finished", "elapsed": 90}},
	"league": {"id": 128, "name": "Liga Profesional Argentina", "season": 2025},
	"teams": {
		"home": {"id": 435, "name": "River Plate", "logo": "https://media.api-sports.io/football/teams/435.png"},
		"away": {"id": 451, "name": "Boca Juniors", "logo": "https://media.api-sports.io/football/teams/451.png"}
	},
	"goals": {"home": 2, "away": 1}
}`

const scheduledFixture = `{
	"fixture": {"id": 1158700, "date": "2025-01-30T19:00:00-03:00", "status": {"short": "NS"}},
	"teams": {
		"home": {"name": "Talleres", "logo": "https://media.api-sports.io/football/teams/456.png"},
		"away": {"name": "Belgrano", "logo": "https://media.api-sports.io/football/teams/440.png"}
	},
	"goals": {"home": null, "away": null}
}`

func TestFixtureInput_ToMatch(t *testing.T) {
	fi, err := DecodeFixture([]byte(finishedFixture))
	require.NoError(t, err)

	match, err := fi.ToMatch("Liga Profesional")
	require.NoError(t, err)

	assert.Equal(t, int64(1158661), match.FixtureID.Int64)
	assert.True(t, match.HasFixtureID())
	assert.Equal(t, "Liga Profesional", match.CompetitionLabel)
	assert.Equal(t, "River Plate", match.HomeTeam)
	assert.Equal(t, "Boca Juniors", match.AwayTeam)
	assert.Equal(t, "https://media.api-sports.io/football/teams/435.png", match.HomeLogo.String)
	assert.Equal(t, "https://media.api-sports.io/football/teams/451.png", match.AwayLogo.String)
	assert.Equal(t, 2, match.HomeGoals)
	assert.Equal(t, 1, match.AwayGoals)
	assert.True(t, match.KickoffTime.Equal(time.Date(2025, 1, 25, 21, 15, 0, 0, time.UTC)))
	assert.True(t, fi.IsFinished())
}

func TestFixtureInput_ToMatch_NullGoalsBecomeZero(t *testing.T) {
	fi, err := DecodeFixture([]byte(scheduledFixture))
	require.NoError(t, err)

	match, err := fi.ToMatch("Liga Profesional")
	require.NoError(t, err)
	assert.Equal(t, 0, match.HomeGoals)
	assert.Equal(t, 0, match.AwayGoals)
	assert.False(t, fi.IsFinished())
	assert.Equal(t, "NS", fi.StatusShort())
}

func TestFixtureInput_ToMatch_GoalsObjectAbsent(t *testing.T) {
	fi, err := DecodeFixture([]byte(`{
		"fixture": {"id": 1, "date": "2025-01-20T18:00:00Z"},
		"teams": {"home": {"name": "A", "logo": ""}, "away": {"name": "B", "logo": ""}}
	}`))
	require.NoError(t, err)

	match, err := fi.ToMatch("La Liga")
	require.NoError(t, err)
	assert.Equal(t, 0, match.HomeGoals)
	assert.Equal(t, 0, match.AwayGoals)
	assert.False(t, match.HomeLogo.Valid, "empty logo stored as null")
}

func TestFixtureInput_ToMatch_MissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"fixture":          `{"teams": {"home": {"name": "A", "logo": "a"}, "away": {"name": "B", "logo": "b"}}}`,
		"fixture.id":       `{"fixture": {"date": "2025-01-20T18:00:00Z"}, "teams": {"home": {"name": "A", "logo": "a"}, "away": {"name": "B", "logo": "b"}}}`,
		"fixture.date":     `{"fixture": {"id": 1}, "teams": {"home": {"name": "A", "logo": "a"}, "away": {"name": "B", "logo": "b"}}}`,
		"teams":            `{"fixture": {"id": 1, "date": "2025-01-20T18:00:00Z"}}`,
		"teams.home":       `{"fixture": {"id": 1, "date": "2025-01-20T18:00:00Z"}, "teams": {"away": {"name": "B", "logo": "b"}}}`,
		"teams.away.name":  `{"fixture": {"id": 1, "date": "2025-01-20T18:00:00Z"}, "teams": {"home": {"name": "A", "logo": "a"}, "away": {"logo": "b"}}}`,
		"teams.home.logo":  `{"fixture": {"id": 1, "date": "2025-01-20T18:00:00Z"}, "teams": {"home": {"name": "A"}, "away": {"name": "B", "logo": "b"}}}`,
	}

	for field, raw := range cases {
		t.Run(field, func(t *testing.T) {
			fi, err := DecodeFixture([]byte(raw))
			require.NoError(t, err)

			_, err = fi.ToMatch("La Liga")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedFixture))
			assert.Contains(t, err.Error(), "missing "+field)
		})
	}
}

func TestFixtureInput_ToMatch_BadDate(t *testing.T) {
	fi, err := DecodeFixture([]byte(`{
		"fixture": {"id": 1, "date": "25/01/2025"},
		"teams": {"home": {"name": "A", "logo": "a"}, "away": {"name": "B", "logo": "b"}}
	}`))
	require.NoError(t, err)

	_, err = fi.ToMatch("La Liga")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFixture))
}

func TestDecodeFixture_InvalidJSON(t *testing.T) {
	_, err := DecodeFixture([]byte(`{"fixture":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFixture))
}

func TestLineupInput_Starters(t *testing.T) {
	lineup := LineupInput{StartXI: []LineupEntry{
		{Player: LineupPlayer{Name: "Armani"}},
		{Player: LineupPlayer{Name: "Montiel"}},
	}}

	assert.Len(t, lineup.Starters(3), 2)
	assert.Equal(t, "Armani", lineup.Starters(1)[0].Name)
}

func TestPlayerRating_Validate(t *testing.T) {
	assert.NoError(t, (&PlayerRating{PlayerName: "Armani", Score: 7}).Validate())
	assert.True(t, errors.Is((&PlayerRating{PlayerName: "Armani", Score: 11}).Validate(), ErrInvalidScore))
	assert.True(t, errors.Is((&PlayerRating{PlayerName: "Armani", Score: 0}).Validate(), ErrInvalidScore))
	assert.Error(t, (&PlayerRating{Score: 5}).Validate())
}
