package league

import (
	"fmt"
	"time"
)

// League is a private prediction league joined by invite code. The owner is
// always a member. Codes are uppercase and unique among active leagues.
type League struct {
	ID          string
	Name        string
	Description string
	InviteCode  string
	OwnerUserID string
	MemberIDs   []string
	CreatedAt   time.Time
}

func (l League) IsMember(userID string) bool {
	for _, id := range l.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.InviteCode == "" {
		return fmt.Errorf("league invite code is required")
	}
	if l.OwnerUserID == "" {
		return fmt.Errorf("league owner is required")
	}
	return nil
}
