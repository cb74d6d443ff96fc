package prediction

// Point values per scoring tier.
const (
	PointsExact    = 4
	PointsGoalDiff = 3
	PointsTendency = 2
	PointsMiss     = 0

	JokerMultiplier = 2
)

// Scoreline is a (home, away) goal pair.
type Scoreline struct {
	Home int
	Away int
}

// Tendency returns the coarse outcome: positive for a home win, zero for a
// draw, negative for an away win.
func (s Scoreline) Tendency() int {
	switch {
	case s.Home > s.Away:
		return 1
	case s.Home < s.Away:
		return -1
	default:
		return 0
	}
}

// Score awards points for a prediction against the actual final score:
// exact scoreline 4, correct goal difference 3, correct tendency 2,
// otherwise 0. A joker doubles whatever the base tier awards. The function
// is pure; settlement must call it exactly once per final result and freeze
// the value, so re-running is idempotent.
func Score(predicted, actual Scoreline, isJoker bool) int {
	base := PointsMiss
	switch {
	case predicted == actual:
		base = PointsExact
	case predicted.Home-predicted.Away == actual.Home-actual.Away:
		base = PointsGoalDiff
	case predicted.Tendency() == actual.Tendency():
		base = PointsTendency
	}

	if isJoker {
		return base * JokerMultiplier
	}
	return base
}
