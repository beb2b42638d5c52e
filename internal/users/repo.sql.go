package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, tenant_id, email, name, role, COALESCE(avatar, ''), email_verified_at IS NOT NULL, created_at, updated_at`

// ListByTenant returns users of a tenant, optionally filtered by role.
func (r *Repository) ListByTenant(ctx context.Context, tenantID string, role shared.Role) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1`
	args := []any{tenantID}
	if role != "" {
		query += ` AND role = $2`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.TenantID, &user.Email, &user.Name, &user.Role, &user.Avatar, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches a user by ID within a tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND tenant_id = $2`, id, tenantID).
		Scan(&user.ID, &user.TenantID, &user.Email, &user.Name, &user.Role, &user.Avatar, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetRole updates a user's role within a tenant.
func (r *Repository) SetRole(ctx context.Context, tenantID, id string, role shared.Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $3, updated_at = now() WHERE id = $1 AND tenant_id = $2`, id, tenantID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
