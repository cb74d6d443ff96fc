package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kickpredict/api/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
	now   func() time.Time
}

func NewMatchRepository(matches []match.Match, now func() time.Time) *MatchRepository {
	if now == nil {
		now = time.Now
	}

	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m
	}

	return &MatchRepository{
		items: items,
		now:   now,
	}
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if filter.Stage != "" && m.Stage != filter.Stage {
			continue
		}
		if filter.Group != "" && m.Group != filter.Group {
			continue
		}
		if filter.Status != "" && match.NormalizeStatus(m.Status) != filter.Status {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	if item.ID == "" {
		return fmt.Errorf("match id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item.UpdatedAt = r.now()
	r.items[item.ID] = item

	return nil
}

func (r *MatchRepository) SetResult(_ context.Context, matchID string, score match.Score) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, match.ErrNotFound
	}
	if m.IsFinished() {
		return match.Match{}, match.ErrAlreadyFinished
	}

	m.Status = match.StatusFinished
	m.FinalScore = &match.Score{Home: score.Home, Away: score.Away}
	m.UpdatedAt = r.now()
	r.items[matchID] = m

	return m, nil
}
