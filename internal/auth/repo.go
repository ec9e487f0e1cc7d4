package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, panel authz.Panel, email string) (*Account, error)
	CreateSession(ctx context.Context, id string, accountID int64, panel authz.Panel, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
	ActiveSessionIDs(ctx context.Context, accountID int64) ([]string, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a panel account by email.
func (r *PGRepository) FindByEmail(ctx context.Context, panel authz.Panel, email string) (*Account, error) {
	const query = `SELECT id, panel, name, email, password_hash, role, is_active, created_at, updated_at
		FROM panel_accounts WHERE panel = $1 AND email = $2`
	account := &Account{}
	err := r.pool.QueryRow(ctx, query, string(panel), email).Scan(
		&account.ID, &account.Panel, &account.Name, &account.Email,
		&account.PasswordHash, &account.Role, &account.IsActive,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// CreateSession persists a login session record for auditing and for
// locating an account's live sessions.
func (r *PGRepository) CreateSession(ctx context.Context, id string, accountID int64, panel authz.Panel, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, account_id, panel, created_at, expires_at, ip, ua)
		 VALUES ($1, $2, $3, NOW(), $4, NULLIF($5, ''), NULLIF($6, ''))`,
		id, accountID, string(panel), expiresAt.UTC(), ip, ua)
	return err
}

// DeleteSession removes a session record.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// ActiveSessionIDs returns the unexpired session IDs for an account.
func (r *PGRepository) ActiveSessionIDs(ctx context.Context, accountID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM sessions WHERE account_id = $1 AND expires_at > NOW()`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteExpiredSessions removes session records that expired before
// the given time and reports how many were swept.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
