package match

import "time"

// LockWindow is how long before kickoff a match stops accepting predictions.
const LockWindow = 15 * time.Minute

// PredictionsLocked reports whether predictions for a match kicking off at
// kickoff are read-only at instant now. The boundary is inclusive: exactly
// fifteen minutes before kickoff is already locked. The same predicate gates
// the write path and the reveal path.
func PredictionsLocked(kickoff, now time.Time) bool {
	return !now.Before(kickoff.Add(-LockWindow))
}
