package leaderboard

import "context"

// SnapshotRepository stores ranking snapshots per scope.
type SnapshotRepository interface {
	GetLatest(ctx context.Context, scope string) (Snapshot, bool, error)
	// GetPrevious returns the snapshot the latest one replaced. Movement is
	// reported against it while the ranking stays unchanged.
	GetPrevious(ctx context.Context, scope string) (Snapshot, bool, error)
	// Append stores a snapshot as the new latest version for its scope and
	// prunes everything older than the one it replaces.
	Append(ctx context.Context, snapshot Snapshot) error
}
