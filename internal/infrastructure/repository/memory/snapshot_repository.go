package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kickpredict/api/internal/domain/leaderboard"
)

// SnapshotRepository keeps at most the previous and current ranking
// snapshots per scope.
type SnapshotRepository struct {
	mu      sync.RWMutex
	byScope map[string][]leaderboard.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		byScope: make(map[string][]leaderboard.Snapshot),
	}
}

func (r *SnapshotRepository) GetLatest(_ context.Context, scope string) (leaderboard.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byScope[scope]
	if len(history) == 0 {
		return leaderboard.Snapshot{}, false, nil
	}

	return cloneSnapshot(history[len(history)-1]), true, nil
}

func (r *SnapshotRepository) GetPrevious(_ context.Context, scope string) (leaderboard.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byScope[scope]
	if len(history) < 2 {
		return leaderboard.Snapshot{}, false, nil
	}

	return cloneSnapshot(history[len(history)-2]), true, nil
}

func (r *SnapshotRepository) Append(_ context.Context, snapshot leaderboard.Snapshot) error {
	if snapshot.Scope == "" {
		return fmt.Errorf("snapshot scope is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.byScope[snapshot.Scope]
	if len(history) > 0 && snapshot.Version <= history[len(history)-1].Version {
		return fmt.Errorf("snapshot version %d is not after latest %d", snapshot.Version, history[len(history)-1].Version)
	}

	history = append(history, cloneSnapshot(snapshot))
	if len(history) > 2 {
		history = history[len(history)-2:]
	}
	r.byScope[snapshot.Scope] = history

	return nil
}

func cloneSnapshot(snapshot leaderboard.Snapshot) leaderboard.Snapshot {
	ranks := make(map[string]int, len(snapshot.RankByUserID))
	for userID, rank := range snapshot.RankByUserID {
		ranks[userID] = rank
	}
	snapshot.RankByUserID = ranks
	return snapshot
}
