package leaderboard

import "time"

// ScopeGlobal ranks every user; league scopes rank only league members.
const ScopeGlobal = "global"

// Entry is one derived leaderboard row. Rank is a distinct 1-based
// position after tie-breaks, never shared. Movement is previous rank minus
// current rank against the last stored snapshot of the same scope, so
// positive means the user moved up.
type Entry struct {
	UserID           string
	Username         string
	TotalPoints      int
	PredictionsCount int
	ExactScores      int
	GoalDiffs        int
	Tendencies       int
	Rank             int
	Movement         int
}

// Snapshot is one immutable ranking capture for a scope. Snapshots form an
// append-only sequence keyed by a monotonic version; only the previous and
// current captures are retained.
type Snapshot struct {
	Scope        string
	Version      int64
	RankByUserID map[string]int
	CreatedAt    time.Time
}
