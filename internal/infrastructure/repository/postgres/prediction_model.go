package postgres

import (
	"database/sql"
	"time"

	"github.com/kickpredict/api/internal/domain/prediction"
)

type predictionTableModel struct {
	ID        string        `db:"id"`
	UserID    string        `db:"user_id"`
	MatchID   string        `db:"match_id"`
	PredHome  int           `db:"pred_home"`
	PredAway  int           `db:"pred_away"`
	IsJoker   bool          `db:"is_joker"`
	Points    sql.NullInt64 `db:"points"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	out := prediction.Prediction{
		ID:      m.ID,
		UserID:  m.UserID,
		MatchID: m.MatchID,
		Predicted: prediction.Scoreline{
			Home: m.PredHome,
			Away: m.PredAway,
		},
		IsJoker:   m.IsJoker,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Points.Valid {
		points := int(m.Points.Int64)
		out.PointsEarned = &points
	}
	return out
}
