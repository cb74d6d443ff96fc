package match

import "context"

// Filter narrows match listings. Empty fields match everything.
type Filter struct {
	Stage  string
	Group  string
	Status string
}

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Upsert(ctx context.Context, item Match) error
	// SetResult records the final score and marks the match finished.
	// Implementations must refuse to move a finished match backward.
	SetResult(ctx context.Context, matchID string, score Score) (Match, error)
}
