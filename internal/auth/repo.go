package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	// FindUserByEmail fetches a user by normalized email. An empty
	// tenantID performs a global lookup across tenants; the first match
	// wins, mirroring the tenant-optional login surface.
	FindUserByEmail(ctx context.Context, email, tenantID string) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindUserByEmail fetches a user by email, optionally tenant-scoped.
func (r *PGRepository) FindUserByEmail(ctx context.Context, email, tenantID string) (*User, error) {
	query := `SELECT id, tenant_id, email, name, COALESCE(password_hash, ''), role, COALESCE(avatar, ''), created_at, updated_at
		FROM users WHERE email = $1`
	args := []any{email}
	if tenantID != "" {
		query += ` AND tenant_id = $2`
		args = append(args, tenantID)
	}
	query += ` LIMIT 1`

	var user User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.TenantID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user record. A unique violation on
// (tenant_id, email) surfaces as shared.ErrDuplicateEmail.
func (r *PGRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	const query = `INSERT INTO users (id, tenant_id, email, name, password_hash, role, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING created_at, updated_at`

	created := *user
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.TenantID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Avatar,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicateEmail
		}
		return nil, err
	}
	return &created, nil
}

var _ Repository = (*PGRepository)(nil)
