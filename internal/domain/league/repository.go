package league

import "context"

type Repository interface {
	// Create persists a new league. Implementations serialize the invite
	// code uniqueness check so two concurrent creations can never share a
	// code; a collision surfaces as a duplicate-constraint error.
	Create(ctx context.Context, item League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByInviteCode(ctx context.Context, code string) (League, bool, error)
	ListByMember(ctx context.Context, userID string) ([]League, error)
	// AddMember appends a user to the member set. Adding an existing
	// member is the caller's error and must not silently succeed.
	AddMember(ctx context.Context, leagueID, userID string) error
	ListMemberIDs(ctx context.Context, leagueID string) ([]string, error)
}
