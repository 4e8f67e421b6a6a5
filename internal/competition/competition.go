// Package competition holds the fixed set of competitions the sync targets and
// the date window it queries.
package competition

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrUnknown is returned when a competition id is not in the table
var ErrUnknown = errors.New("unknown competition")

// Competition maps an API-Football league id to the label stored on match rows
// and the season the provider expects for it.
type Competition struct {
	ID     int
	Label  string
	Season int
}

// Table is the ordered set of competitions ingested by every sync run.
// Argentine top flight runs on the calendar year; the rest are on the 2024-25 season.
var Table = []Competition{
	{ID: 128, Label: "Liga Profesional", Season: 2025},
	{ID: 129, Label: "Primera Nacional", Season: 2024},
	{ID: 140, Label: "La Liga", Season: 2024},
	{ID: 39, Label: "Premier League", Season: 2024},
}

// Lookup returns the competition with the given provider id
func Lookup(id int) (Competition, error) {
	for _, c := range Table {
		if c.ID == id {
			return c, nil
		}
	}
	return Competition{}, errors.Wrapf(ErrUnknown, "league id %d", id)
}

// DateWindow is an inclusive from/to pair of calendar days
type DateWindow struct {
	From time.Time
	To   time.Time
}

// SyncWindow is the historical window the provider has data for on the free plan
var SyncWindow = DateWindow{
	From: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
}

// DateLayout is the provider's from/to/date parameter format
const DateLayout = "2006-01-02"

// FromParam formats the lower bound for the provider query
func (w DateWindow) FromParam() string {
	return w.From.Format(DateLayout)
}

// ToParam formats the upper bound for the provider query
func (w DateWindow) ToParam() string {
	return w.To.Format(DateLayout)
}
