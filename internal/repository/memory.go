package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"partidos/ingestion/internal/models"

	"github.com/google/uuid"
)

// MatchStore is an in-memory stand-in for the matches table with the same
// upsert semantics. Used for dry runs.
type MatchStore struct {
	mu        sync.RWMutex
	rows      []*models.Match
	byFixture map[int64]*models.Match
	now       func() time.Time
}

// NewMatchStore creates an empty store
func NewMatchStore() *MatchStore {
	return &MatchStore{
		byFixture: make(map[int64]*models.Match),
		now:       time.Now,
	}
}

// Upsert stores a copy of match keyed by fixture_id, keeping id and created_at
// of an existing row
func (s *MatchStore) Upsert(_ context.Context, match *models.Match) error {
	if !match.HasFixtureID() {
		return fmt.Errorf("failed to upsert match: fixture_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.byFixture[match.FixtureID.Int64]; ok {
		id, created := existing.ID, existing.CreatedAt
		*existing = *match
		existing.ID = id
		existing.CreatedAt = created
		existing.UpdatedAt = now
		match.ID, match.CreatedAt, match.UpdatedAt = id, created, now
		return nil
	}

	s.insertLocked(match, now)
	return nil
}

// Insert stores a copy of match without conflict handling
func (s *MatchStore) Insert(_ context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.HasFixtureID() {
		if _, ok := s.byFixture[match.FixtureID.Int64]; ok {
			return fmt.Errorf("failed to insert match: duplicate fixture_id %d", match.FixtureID.Int64)
		}
	}
	s.insertLocked(match, s.now())
	return nil
}

func (s *MatchStore) insertLocked(match *models.Match, now time.Time) {
	match.ID = uuid.New()
	match.CreatedAt = now
	match.UpdatedAt = now

	row := *match
	s.rows = append(s.rows, &row)
	if row.HasFixtureID() {
		s.byFixture[row.FixtureID.Int64] = &row
	}
}

// Exists reports whether a row holds fixtureID
func (s *MatchStore) Exists(_ context.Context, fixtureID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byFixture[fixtureID]
	return ok, nil
}

// GetByFixtureID returns a copy of the row holding fixtureID
func (s *MatchStore) GetByFixtureID(_ context.Context, fixtureID int64) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.byFixture[fixtureID]
	if !ok {
		return nil, fmt.Errorf("%w: fixture_id=%d", ErrMatchNotFound, fixtureID)
	}
	out := *row
	return &out, nil
}

// List returns up to limit rows, earliest kickoff first
func (s *MatchStore) List(_ context.Context, limit int) ([]*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Match, 0, len(s.rows))
	for _, row := range s.rows {
		m := *row
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KickoffTime.Before(out[j].KickoffTime)
	})
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// DeleteAll empties the store
func (s *MatchStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.rows))
	s.rows = nil
	s.byFixture = make(map[int64]*models.Match)
	return n, nil
}

// Count returns the number of rows
func (s *MatchStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}
