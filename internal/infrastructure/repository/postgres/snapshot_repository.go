package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/kickpredict/api/internal/domain/leaderboard"
)

type snapshotTableModel struct {
	Scope     string    `db:"scope"`
	Version   int64     `db:"version"`
	Ranks     []byte    `db:"ranks"`
	CreatedAt time.Time `db:"created_at"`
}

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetLatest(ctx context.Context, scope string) (leaderboard.Snapshot, bool, error) {
	return r.getAt(ctx, scope, 0)
}

// GetPrevious returns the snapshot the latest one replaced.
func (r *SnapshotRepository) GetPrevious(ctx context.Context, scope string) (leaderboard.Snapshot, bool, error) {
	return r.getAt(ctx, scope, 1)
}

func (r *SnapshotRepository) getAt(ctx context.Context, scope string, offset int) (leaderboard.Snapshot, bool, error) {
	var row snapshotTableModel
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM leaderboard_snapshots
		WHERE scope = $1
		ORDER BY version DESC
		LIMIT 1 OFFSET $2`, scope, offset)
	if isNotFound(err) {
		return leaderboard.Snapshot{}, false, nil
	}
	if err != nil {
		return leaderboard.Snapshot{}, false, fmt.Errorf("get snapshot: %w", err)
	}

	ranks := make(map[string]int)
	if err := sonic.Unmarshal(row.Ranks, &ranks); err != nil {
		return leaderboard.Snapshot{}, false, fmt.Errorf("decode snapshot ranks: %w", err)
	}

	return leaderboard.Snapshot{
		Scope:        row.Scope,
		Version:      row.Version,
		RankByUserID: ranks,
		CreatedAt:    row.CreatedAt,
	}, true, nil
}

// Append stores the snapshot and prunes everything older than the version
// it replaces, keeping the previous and current captures only.
func (r *SnapshotRepository) Append(ctx context.Context, snapshot leaderboard.Snapshot) error {
	if snapshot.Scope == "" {
		return fmt.Errorf("snapshot scope is required")
	}

	ranks, err := sonic.Marshal(snapshot.RankByUserID)
	if err != nil {
		return fmt.Errorf("encode snapshot ranks: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO leaderboard_snapshots (scope, version, ranks, created_at)
		VALUES ($1, $2, $3, $4)`,
		snapshot.Scope, snapshot.Version, ranks, snapshot.CreatedAt); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM leaderboard_snapshots
		WHERE scope = $1 AND version < $2 - 1`,
		snapshot.Scope, snapshot.Version); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
