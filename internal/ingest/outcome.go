package ingest

import (
	"fmt"
	"strings"
	"time"

	"partidos/ingestion/internal/competition"

	"github.com/bytedance/sonic"
)

// Stage names the step a fixture reached
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageUpsert    Stage = "upsert"
)

// Outcome is the result of processing one raw fixture. Err is nil on success,
// otherwise Stage tells where it failed.
type Outcome struct {
	FixtureID int64
	Stage     Stage
	Err       error
}

// OK reports whether the fixture was stored
func (o Outcome) OK() bool {
	return o.Err == nil
}

// MarshalJSON flattens Err to its message
func (o Outcome) MarshalJSON() ([]byte, error) {
	view := struct {
		FixtureID int64  `json:"fixture_id"`
		Stage     Stage  `json:"stage"`
		Error     string `json:"error,omitempty"`
	}{FixtureID: o.FixtureID, Stage: o.Stage}
	if o.Err != nil {
		view.Error = o.Err.Error()
	}
	return sonic.Marshal(view)
}

// CompetitionReport collects what happened to one competition during a run
type CompetitionReport struct {
	Competition competition.Competition `json:"competition"`
	Fetched     int                     `json:"fetched"`
	FetchError  string                  `json:"fetch_error,omitempty"`
	Outcomes    []Outcome               `json:"outcomes"`
}

// Succeeded counts stored fixtures
func (c CompetitionReport) Succeeded() int {
	n := 0
	for _, o := range c.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed counts fixtures that were not stored
func (c CompetitionReport) Failed() int {
	return len(c.Outcomes) - c.Succeeded()
}

// Report aggregates the outcomes of a run
type Report struct {
	Kind         string              `json:"kind"`
	StartedAt    time.Time           `json:"started_at"`
	Duration     time.Duration       `json:"duration"`
	Competitions []CompetitionReport `json:"competitions"`
	Succeeded    int                 `json:"succeeded"`
	Failed       int                 `json:"failed"`
}

func (r *Report) add(c CompetitionReport) {
	r.Competitions = append(r.Competitions, c)
	r.Succeeded += c.Succeeded()
	r.Failed += c.Failed()
}

// Status is "failed" when fixtures were attempted and none stored, "success" otherwise
func (r Report) Status() string {
	if r.Succeeded == 0 && r.Failed > 0 {
		return "failed"
	}
	return "success"
}

// Summary renders one line per competition and a total
func (r Report) Summary() string {
	var b strings.Builder
	for _, c := range r.Competitions {
		fmt.Fprintf(&b, "%s: %d fetched, %d stored, %d failed", c.Competition.Label, c.Fetched, c.Succeeded(), c.Failed())
		if c.FetchError != "" {
			fmt.Fprintf(&b, " (fetch error: %s)", c.FetchError)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Sync complete. Matches stored: %d, failed: %d", r.Succeeded, r.Failed)
	return b.String()
}
