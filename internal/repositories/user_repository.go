package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"friend-service/internal/models"
)

const userColumns = `id, username, avatar_url, push_token, is_admin, banned_until, created_at`

// UserRepository is the user directory the friend graph reads from.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
	BulkUsers(ctx context.Context, ids []string) ([]models.User, error)
	SetPushToken(ctx context.Context, userID string, token string) error
	SetBannedUntil(ctx context.Context, userID string, until time.Time) error
	EnsureUser(ctx context.Context, userID string, username string) (bool, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser retrieves user details.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// BulkUsers fetches multiple users in one call.
func (r *UserRepo) BulkUsers(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return users, err
}

// SetPushToken stores the push address of a user.
func (r *UserRepo) SetPushToken(ctx context.Context, userID string, token string) error {
	return r.update(ctx, `UPDATE users SET push_token=$1 WHERE id=$2`, token, userID)
}

// SetBannedUntil bans the user until the given instant.
func (r *UserRepo) SetBannedUntil(ctx context.Context, userID string, until time.Time) error {
	return r.update(ctx, `UPDATE users SET banned_until=$1 WHERE id=$2`, until, userID)
}

// EnsureUser inserts the user when it does not exist yet and reports whether
// a row was created. Existing rows are left untouched.
func (r *UserRepo) EnsureUser(ctx context.Context, userID string, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES ($1, $2)
        ON CONFLICT (id) DO NOTHING`, userID, username)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count == 1, nil
}

func (r *UserRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
