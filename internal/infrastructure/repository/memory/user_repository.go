package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kickpredict/api/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
	now   func() time.Time
}

func NewUserRepository(now func() time.Time) *UserRepository {
	if now == nil {
		now = time.Now
	}

	return &UserRepository{
		items: make(map[string]user.User),
		now:   now,
	}
}

func (r *UserRepository) Save(_ context.Context, item user.User) error {
	if item.ID == "" {
		return fmt.Errorf("user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if ok {
		existing.Username = item.Username
		if item.Email != "" {
			existing.Email = item.Email
		}
		if item.Avatar != "" {
			existing.Avatar = item.Avatar
		}
		r.items[item.ID] = existing
		return nil
	}

	item.CreatedAt = r.now()
	r.items[item.ID] = item

	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}

	return item, true, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}

	return out, nil
}
