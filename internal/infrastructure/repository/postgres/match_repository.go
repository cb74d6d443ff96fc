package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kickpredict/api/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	query := `SELECT * FROM matches`
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.Stage != "" {
		args = append(args, filter.Stage)
		conditions = append(conditions, fmt.Sprintf("stage = $%d", len(args)))
	}
	if filter.Group != "" {
		args = append(args, filter.Group)
		conditions = append(conditions, fmt.Sprintf("group_name = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY kickoff_at, id"

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM matches WHERE id = $1`, matchID); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	if item.ID == "" {
		return fmt.Errorf("match id is required")
	}

	const query = `
		INSERT INTO matches (
			id, home_team_id, home_team_name, home_team_short, home_team_crest,
			away_team_id, away_team_name, away_team_short, away_team_crest,
			kickoff_at, status, final_home, final_away, stage, group_name, updated_at
		) VALUES (
			:id, :home_team_id, :home_team_name, :home_team_short, :home_team_crest,
			:away_team_id, :away_team_name, :away_team_short, :away_team_crest,
			:kickoff_at, :status, :final_home, :final_away, :stage, :group_name, now()
		)
		ON CONFLICT (id) DO UPDATE SET
			home_team_id = EXCLUDED.home_team_id,
			home_team_name = EXCLUDED.home_team_name,
			home_team_short = EXCLUDED.home_team_short,
			home_team_crest = EXCLUDED.home_team_crest,
			away_team_id = EXCLUDED.away_team_id,
			away_team_name = EXCLUDED.away_team_name,
			away_team_short = EXCLUDED.away_team_short,
			away_team_crest = EXCLUDED.away_team_crest,
			kickoff_at = EXCLUDED.kickoff_at,
			status = EXCLUDED.status,
			final_home = EXCLUDED.final_home,
			final_away = EXCLUDED.final_away,
			stage = EXCLUDED.stage,
			group_name = EXCLUDED.group_name,
			updated_at = now()`

	if _, err := r.db.NamedExecContext(ctx, query, matchToModel(item)); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) SetResult(ctx context.Context, matchID string, score match.Score) (match.Match, error) {
	const query = `
		UPDATE matches
		SET status = $2, final_home = $3, final_away = $4, updated_at = now()
		WHERE id = $1 AND status NOT IN ('FINISHED', 'FT', 'AET', 'PEN')
		RETURNING *`

	var row matchTableModel
	err := r.db.GetContext(ctx, &row, query, matchID, match.StatusFinished, score.Home, score.Away)
	if err == nil {
		return row.toDomain(), nil
	}
	if !isNotFound(err) {
		return match.Match{}, fmt.Errorf("set match result: %w", err)
	}

	// No row updated: either the match is unknown or already terminal.
	var status string
	err = r.db.GetContext(ctx, &status, `SELECT status FROM matches WHERE id = $1`, matchID)
	if isNotFound(err) {
		return match.Match{}, match.ErrNotFound
	}
	if err != nil {
		return match.Match{}, fmt.Errorf("get match status: %w", err)
	}

	return match.Match{}, match.ErrAlreadyFinished
}
