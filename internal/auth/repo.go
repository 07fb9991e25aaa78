package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	CreateIfMissing(ctx context.Context, username, fullName, passwordHash string) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByUsername fetches an account by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	var acc Account
	err := r.pool.QueryRow(ctx, `SELECT id, username, COALESCE(full_name, ''), password_hash FROM users WHERE username = $1`, username).
		Scan(&acc.ID, &acc.Username, &acc.FullName, &acc.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// CreateIfMissing inserts the account unless the username exists and reports
// whether a row was written.
func (r *PGRepository) CreateIfMissing(ctx context.Context, username, fullName, passwordHash string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `INSERT INTO users (username, full_name, password_hash) VALUES ($1, $2, $3) ON CONFLICT (username) DO NOTHING`,
		username, fullName, passwordHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

var _ Repository = (*PGRepository)(nil)
