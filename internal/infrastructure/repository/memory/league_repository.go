package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kickpredict/api/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.League
	byCode map[string]string
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		items:  make(map[string]league.League),
		byCode: make(map[string]string),
	}
}

// Create holds the write lock across the invite-code uniqueness check and
// the insert, so two concurrent creations can never share a code.
func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byCode[item.InviteCode]; taken {
		return league.ErrDuplicateInviteCode
	}

	r.items[item.ID] = cloneLeague(item)
	r.byCode[item.InviteCode] = item.ID

	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(item), true, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, code string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(r.items[id]), true, nil
}

func (r *LeagueRepository) ListByMember(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, item := range r.items {
		if item.IsMember(userID) {
			out = append(out, cloneLeague(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, leagueID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[leagueID]
	if !ok {
		return league.ErrNotFound
	}
	if item.IsMember(userID) {
		return league.ErrDuplicateMember
	}

	item.MemberIDs = append(item.MemberIDs, userID)
	r.items[leagueID] = item

	return nil
}

func (r *LeagueRepository) ListMemberIDs(_ context.Context, leagueID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	if !ok {
		return nil, league.ErrNotFound
	}

	out := make([]string, len(item.MemberIDs))
	copy(out, item.MemberIDs)

	return out, nil
}

func cloneLeague(item league.League) league.League {
	members := make([]string, len(item.MemberIDs))
	copy(members, item.MemberIDs)
	item.MemberIDs = members
	return item
}
