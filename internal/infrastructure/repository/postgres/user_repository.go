package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kickpredict/api/internal/domain/user"
)

type userTableModel struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Avatar    string    `db:"avatar"`
	CreatedAt time.Time `db:"created_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		Avatar:    m.Avatar,
		CreatedAt: m.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, item user.User) error {
	if item.ID == "" {
		return fmt.Errorf("user id is required")
	}

	const query = `
		INSERT INTO users (id, username, email, avatar, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE users.email END,
			avatar = CASE WHEN EXCLUDED.avatar <> '' THEN EXCLUDED.avatar ELSE users.avatar END`

	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Username, item.Email, item.Avatar); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	var row userTableModel
	err := r.db.GetContext(ctx, &row, `SELECT * FROM users WHERE id = $1`, userID)
	if isNotFound(err) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return []user.User{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM users WHERE id IN (?)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
