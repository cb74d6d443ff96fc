package league

import (
	"crypto/rand"
	"fmt"
)

// InviteCodeAlphabet omits easily confused characters (0/O and 1/I).
const InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const InviteCodeLength = 8

// NewInviteCode returns a fresh random invite code. Uniqueness is the
// repository's job; callers retry on collisions.
func NewInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = InviteCodeAlphabet[int(b)%len(InviteCodeAlphabet)]
	}
	return string(buf), nil
}
