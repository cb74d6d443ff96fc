package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kickpredict/api/internal/domain/league"
)

type leagueTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	InviteCode  string    `db:"invite_code"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// Create inserts the league and its owner membership in one transaction.
// The unique index on invite_code serializes code allocation.
func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO leagues (id, name, description, invite_code, owner_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.Name, item.Description, item.InviteCode, item.OwnerUserID, item.CreatedAt)
	if isUniqueViolation(err, "leagues_invite_code_key") {
		return league.ErrDuplicateInviteCode
	}
	if err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	for _, userID := range item.MemberIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO league_members (league_id, user_id, joined_at)
			VALUES ($1, $2, $3)`,
			item.ID, userID, item.CreatedAt); err != nil {
			return fmt.Errorf("insert league member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, `SELECT * FROM leagues WHERE id = $1`, leagueID)
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	return r.getOne(ctx, `SELECT * FROM leagues WHERE invite_code = $1`, code)
}

func (r *LeagueRepository) ListByMember(ctx context.Context, userID string) ([]league.League, error) {
	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT l.* FROM leagues l
		JOIN league_members m ON m.league_id = l.id
		WHERE m.user_id = $1
		ORDER BY l.created_at, l.id`, userID); err != nil {
		return nil, fmt.Errorf("select leagues by member: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrateMembers(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, leagueID, userID string) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM leagues WHERE id = $1)`, leagueID); err != nil {
		return fmt.Errorf("check league exists: %w", err)
	}
	if !exists {
		return league.ErrNotFound
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO league_members (league_id, user_id, joined_at)
		VALUES ($1, $2, now())`, leagueID, userID)
	if isUniqueViolation(err, "league_members_pkey") {
		return league.ErrDuplicateMember
	}
	if err != nil {
		return fmt.Errorf("insert league member: %w", err)
	}

	return nil
}

func (r *LeagueRepository) ListMemberIDs(ctx context.Context, leagueID string) ([]string, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM leagues WHERE id = $1)`, leagueID); err != nil {
		return nil, fmt.Errorf("check league exists: %w", err)
	}
	if !exists {
		return nil, league.ErrNotFound
	}

	var memberIDs []string
	if err := r.db.SelectContext(ctx, &memberIDs,
		`SELECT user_id FROM league_members WHERE league_id = $1 ORDER BY joined_at, user_id`, leagueID); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	return memberIDs, nil
}

func (r *LeagueRepository) getOne(ctx context.Context, query string, arg any) (league.League, bool, error) {
	var row leagueTableModel
	err := r.db.GetContext(ctx, &row, query, arg)
	if isNotFound(err) {
		return league.League{}, false, nil
	}
	if err != nil {
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	item, err := r.hydrateMembers(ctx, row)
	if err != nil {
		return league.League{}, false, err
	}

	return item, true, nil
}

func (r *LeagueRepository) hydrateMembers(ctx context.Context, row leagueTableModel) (league.League, error) {
	var memberIDs []string
	if err := r.db.SelectContext(ctx, &memberIDs,
		`SELECT user_id FROM league_members WHERE league_id = $1 ORDER BY joined_at, user_id`, row.ID); err != nil {
		return league.League{}, fmt.Errorf("select league members: %w", err)
	}

	return league.League{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		InviteCode:  row.InviteCode,
		OwnerUserID: row.OwnerUserID,
		MemberIDs:   memberIDs,
		CreatedAt:   row.CreatedAt,
	}, nil
}
