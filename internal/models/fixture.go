package models

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// ErrMalformedFixture is returned when a provider fixture lacks a required field
var ErrMalformedFixture = errors.New("malformed fixture")

// FixtureInput is one item of the API-Football /fixtures response list.
// Pointer fields distinguish "absent" from zero values.
type FixtureInput struct {
	Fixture *FixtureInfo `json:"fixture"`
	League  *LeagueInfo  `json:"league"`
	Teams   *TeamsInput  `json:"teams"`
	Goals   *GoalsInput  `json:"goals"`
}

// FixtureInfo holds the scheduling part of a fixture
type FixtureInfo struct {
	ID     *int64        `json:"id"`
	Date   *string       `json:"date"` // ISO 8601 with offset
	Status FixtureStatus `json:"status"`
}

// FixtureStatus is the provider's lifecycle code (NS, 1H, HT, FT, ...)
type FixtureStatus struct {
	Short   string `json:"short"`
	Long    string `json:"long"`
	Elapsed *int   `json:"elapsed"`
}

// LeagueInfo identifies the competition a fixture belongs to
type LeagueInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
}

// TeamsInput holds both sides of a fixture
type TeamsInput struct {
	Home *TeamInput `json:"home"`
	Away *TeamInput `json:"away"`
}

// TeamInput is a side of a fixture
type TeamInput struct {
	ID   int     `json:"id"`
	Name *string `json:"name"`
	Logo *string `json:"logo"`
}

// GoalsInput is null per side until the match has a score
type GoalsInput struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// DecodeFixture parses one raw provider record
func DecodeFixture(raw []byte) (*FixtureInput, error) {
	var fi FixtureInput
	if err := sonic.Unmarshal(raw, &fi); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode fixture"), ErrMalformedFixture)
	}
	return &fi, nil
}

// FixtureID returns the provider id, or 0 when absent
func (fi *FixtureInput) FixtureID() int64 {
	if fi == nil || fi.Fixture == nil || fi.Fixture.ID == nil {
		return 0
	}
	return *fi.Fixture.ID
}

// StatusShort returns the short status code, or "" when absent
func (fi *FixtureInput) StatusShort() string {
	if fi == nil || fi.Fixture == nil {
		return ""
	}
	return fi.Fixture.Status.Short
}

// IsFinished reports whether the fixture is over (full time, extra time, penalties)
func (fi *FixtureInput) IsFinished() bool {
	switch fi.StatusShort() {
	case "FT", "AET", "PEN":
		return true
	}
	return false
}

// ToMatch converts the provider fixture into the persisted match row.
// Absent goal counts become 0.
func (fi *FixtureInput) ToMatch(competitionLabel string) (*Match, error) {
	if fi.Fixture == nil {
		return nil, missing("fixture")
	}
	if fi.Fixture.ID == nil {
		return nil, missing("fixture.id")
	}
	if fi.Fixture.Date == nil {
		return nil, missing("fixture.date")
	}
	kickoff, err := time.Parse(time.RFC3339, *fi.Fixture.Date)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "fixture.date %q", *fi.Fixture.Date), ErrMalformedFixture)
	}
	if fi.Teams == nil {
		return nil, missing("teams")
	}
	home, err := requireTeam(fi.Teams.Home, "teams.home")
	if err != nil {
		return nil, err
	}
	away, err := requireTeam(fi.Teams.Away, "teams.away")
	if err != nil {
		return nil, err
	}

	match := &Match{
		CompetitionLabel: competitionLabel,
		HomeTeam:         *home.Name,
		AwayTeam:         *away.Name,
		KickoffTime:      kickoff,
		HomeLogo:         nullString(*home.Logo),
		AwayLogo:         nullString(*away.Logo),
	}
	match.SetFixtureID(*fi.Fixture.ID)

	if fi.Goals != nil {
		match.HomeGoals = intOrZero(fi.Goals.Home)
		match.AwayGoals = intOrZero(fi.Goals.Away)
	}

	return match, nil
}

func requireTeam(team *TeamInput, path string) (*TeamInput, error) {
	if team == nil {
		return nil, missing(path)
	}
	if team.Name == nil || *team.Name == "" {
		return nil, missing(path + ".name")
	}
	if team.Logo == nil {
		return nil, missing(path + ".logo")
	}
	return team, nil
}

func missing(field string) error {
	return errors.Wrapf(ErrMalformedFixture, "missing %s", field)
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
