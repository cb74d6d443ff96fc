package prediction

import "time"

// Prediction is one user's forecast for one match. The (UserID, MatchID)
// pair is unique. PointsEarned stays nil until the match is settled; once
// frozen it only changes if the prediction itself is replaced before lock.
type Prediction struct {
	ID           string
	UserID       string
	MatchID      string
	Predicted    Scoreline
	IsJoker      bool
	PointsEarned *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Prediction) IsSettled() bool {
	return p.PointsEarned != nil
}
