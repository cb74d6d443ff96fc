package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/prediction"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert relies on the (user_id, match_id) unique index: concurrent
// submissions for the same pair collapse into one row, last write wins,
// and a replace clears frozen points. The match row is share-locked and
// its status re-read in the same transaction, so a submit that loses the
// race against a final result fails instead of clearing settled points.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	if item.UserID == "" || item.MatchID == "" {
		return prediction.Prediction{}, fmt.Errorf("user id and match id are required")
	}
	if item.ID == "" {
		return prediction.Prediction{}, fmt.Errorf("prediction id is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.GetContext(ctx, &status,
		`SELECT status FROM matches WHERE id = $1 FOR SHARE`, item.MatchID)
	if err != nil && !isNotFound(err) {
		return prediction.Prediction{}, fmt.Errorf("check match status: %w", err)
	}
	if err == nil && match.IsFinishedStatus(status) {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%s", prediction.ErrMatchFinished, item.MatchID)
	}

	const query = `
		INSERT INTO predictions (id, user_id, match_id, pred_home, pred_away, is_joker, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, now(), now())
		ON CONFLICT (user_id, match_id) DO UPDATE SET
			pred_home = EXCLUDED.pred_home,
			pred_away = EXCLUDED.pred_away,
			is_joker = EXCLUDED.is_joker,
			points = NULL,
			updated_at = now()
		RETURNING *`

	var row predictionTableModel
	if err := tx.GetContext(ctx, &row, query,
		item.ID, item.UserID, item.MatchID,
		item.Predicted.Home, item.Predicted.Away, item.IsJoker,
	); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("commit tx: %w", err)
	}

	return row.toDomain(), nil
}

func (r *PredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	var row predictionTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM predictions WHERE user_id = $1 AND match_id = $2`, userID, matchID)
	if isNotFound(err) {
		return prediction.Prediction{}, false, nil
	}
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]prediction.Prediction, error) {
	return r.list(ctx, `SELECT * FROM predictions WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	return r.list(ctx, `SELECT * FROM predictions WHERE match_id = $1 ORDER BY created_at, id`, matchID)
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]prediction.Prediction, error) {
	return r.list(ctx, `SELECT * FROM predictions ORDER BY created_at, id`)
}

func (r *PredictionRepository) ListByUsers(ctx context.Context, userIDs []string) ([]prediction.Prediction, error) {
	if len(userIDs) == 0 {
		return []prediction.Prediction{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM predictions WHERE user_id IN (?) ORDER BY created_at, id`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("build predictions query: %w", err)
	}

	return r.list(ctx, r.db.Rebind(query), args...)
}

func (r *PredictionRepository) SetPoints(ctx context.Context, predictionID string, points int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE predictions SET points = $2, updated_at = now() WHERE id = $1`, predictionID, points)
	if err != nil {
		return fmt.Errorf("set prediction points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set prediction points: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prediction %s not found", predictionID)
	}

	return nil
}

func (r *PredictionRepository) list(ctx context.Context, query string, args ...any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
