package user

import "context"

type Repository interface {
	// Save upserts the user record keyed by ID. The stored username is
	// refreshed so later reads reflect the latest token claims.
	Save(ctx context.Context, item User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]User, error)
}
