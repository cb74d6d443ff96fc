package league

import "errors"

var (
	ErrNotFound            = errors.New("league not found")
	ErrDuplicateInviteCode = errors.New("invite code already taken")
	ErrDuplicateMember     = errors.New("user already a member")
)
