package tenants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// RepositoryPort defines data access methods for tenants.
type RepositoryPort interface {
	Get(ctx context.Context, id string) (*Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) (*Tenant, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantColumns = `id, name, subdomain, COALESCE(logo, ''), COALESCE(accent_color, ''), plan, status, created_at, updated_at`

// Get fetches a tenant by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

// GetBySubdomain fetches a tenant by its subdomain.
func (r *Repository) GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE subdomain = $1`, subdomain)
	return scanTenant(row)
}

// List returns all tenants ordered by name.
func (r *Repository) List(ctx context.Context) ([]Tenant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tenants []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tenants, nil
}

// Create inserts a new tenant.
func (r *Repository) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	const query = `INSERT INTO tenants (id, name, subdomain, logo, accent_color, plan, status)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING created_at, updated_at`
	created := *t
	err := r.pool.QueryRow(ctx, query, t.ID, t.Name, t.Subdomain, t.Logo, t.AccentColor, t.Plan, t.Status).
		Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSubdomainTaken
		}
		return nil, err
	}
	return &created, nil
}

// Update persists mutable tenant fields.
func (r *Repository) Update(ctx context.Context, t *Tenant) (*Tenant, error) {
	const query = `UPDATE tenants
		SET name = $2, logo = NULLIF($3, ''), accent_color = NULLIF($4, ''), plan = $5, status = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + tenantColumns
	row := r.pool.QueryRow(ctx, query, t.ID, t.Name, t.Logo, t.AccentColor, t.Plan, t.Status)
	return scanTenant(row)
}

func scanTenant(row pgx.Row) (*Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Logo, &t.AccentColor, &t.Plan, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ RepositoryPort = (*Repository)(nil)
