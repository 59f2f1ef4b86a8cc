package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gatebot/internal/domain"

	"github.com/lib/pq"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// LoadUsers returns every persisted user record
func (r *UserRepo) LoadUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT user_id, started_at, last_seen, flags
		FROM users
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var flags []string
		if err := rows.Scan(&u.UserID, &u.StartedAt, &u.LastSeen, pq.Array(&flags)); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if len(flags) > 0 {
			u.Flags = flags
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// SaveUser inserts or replaces a user record.
// started_at is never overwritten once set.
func (r *UserRepo) SaveUser(ctx context.Context, user domain.User) error {
	flags := user.Flags
	if flags == nil {
		flags = []string{}
	}

	query := `
		INSERT INTO users (user_id, started_at, last_seen, flags)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET last_seen = EXCLUDED.last_seen, flags = EXCLUDED.flags
	`
	if _, err := r.db.ExecContext(ctx, query, user.UserID, user.StartedAt, user.LastSeen, pq.Array(flags)); err != nil {
		return fmt.Errorf("save user %d: %w", user.UserID, err)
	}
	return nil
}
