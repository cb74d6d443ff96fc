package prediction

import "context"

type Repository interface {
	// Upsert atomically creates or replaces the unique (user, match)
	// prediction. A replace clears any previously frozen points.
	Upsert(ctx context.Context, item Prediction) (Prediction, error)
	GetByUserAndMatch(ctx context.Context, userID, matchID string) (Prediction, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Prediction, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListAll(ctx context.Context) ([]Prediction, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]Prediction, error)
	// SetPoints freezes the settled points for one prediction.
	SetPoints(ctx context.Context, predictionID string, points int) error
}
