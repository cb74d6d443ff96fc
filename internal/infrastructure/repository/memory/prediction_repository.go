package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kickpredict/api/internal/domain/prediction"
)

type predictionKey struct {
	userID  string
	matchID string
}

type PredictionRepository struct {
	mu      sync.RWMutex
	items   map[string]prediction.Prediction
	byPair  map[predictionKey]string
	matches *MatchRepository
	now     func() time.Time
}

func NewPredictionRepository(matches *MatchRepository, now func() time.Time) *PredictionRepository {
	if now == nil {
		now = time.Now
	}

	return &PredictionRepository{
		items:   make(map[string]prediction.Prediction),
		byPair:  make(map[predictionKey]string),
		matches: matches,
		now:     now,
	}
}

// Upsert keeps the (user, match) pair unique under a single lock, so
// concurrent submissions collapse into one row with the last write winning.
// The match status is re-read inside the critical section: a submit that
// loses the race against a final result fails instead of clearing points.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	if item.UserID == "" || item.MatchID == "" {
		return prediction.Prediction{}, fmt.Errorf("user id and match id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.matches != nil {
		m, ok, err := r.matches.GetByID(ctx, item.MatchID)
		if err != nil {
			return prediction.Prediction{}, fmt.Errorf("check match status: %w", err)
		}
		if ok && m.IsFinished() {
			return prediction.Prediction{}, fmt.Errorf("%w: match=%s", prediction.ErrMatchFinished, item.MatchID)
		}
	}

	key := predictionKey{userID: item.UserID, matchID: item.MatchID}
	now := r.now()

	if existingID, ok := r.byPair[key]; ok {
		existing := r.items[existingID]
		existing.Predicted = item.Predicted
		existing.IsJoker = item.IsJoker
		existing.PointsEarned = nil
		existing.UpdatedAt = now
		r.items[existingID] = existing
		return existing, nil
	}

	if item.ID == "" {
		return prediction.Prediction{}, fmt.Errorf("prediction id is required")
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	item.PointsEarned = nil
	r.items[item.ID] = item
	r.byPair[key] = item.ID

	return item, nil
}

func (r *PredictionRepository) GetByUserAndMatch(_ context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[predictionKey{userID: userID, matchID: matchID}]
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.MatchID == matchID {
			out = append(out, item)
		}
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListAll(_ context.Context) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) ListByUsers(_ context.Context, userIDs []string) ([]prediction.Prediction, error) {
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if _, ok := wanted[item.UserID]; ok {
			out = append(out, item)
		}
	}
	sortPredictions(out)

	return out, nil
}

func (r *PredictionRepository) SetPoints(_ context.Context, predictionID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[predictionID]
	if !ok {
		return fmt.Errorf("prediction %s not found", predictionID)
	}

	item.PointsEarned = &points
	item.UpdatedAt = r.now()
	r.items[predictionID] = item

	return nil
}

func sortPredictions(items []prediction.Prediction) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
