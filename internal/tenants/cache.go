package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// flightTimeout bounds a detached singleflight load so an abandoned
// flight cannot hang forever.
const flightTimeout = 5 * time.Second

// Directory resolves tenants through a Redis read-through cache. It sits
// on the login hot path, so concurrent misses for the same tenant are
// collapsed into a single repository query. The cache is best effort: a
// Redis failure falls through to the repository.
type Directory struct {
	repo   RepositoryPort
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewDirectory constructs a Directory. client may be nil to disable
// caching entirely.
func NewDirectory(repo RepositoryPort, client *redis.Client, ttl time.Duration) *Directory {
	return &Directory{repo: repo, client: client, ttl: ttl}
}

// Get resolves a tenant by ID.
func (d *Directory) Get(ctx context.Context, id string) (*Tenant, error) {
	return d.fetch(ctx, "tenant:id:"+id, func(ctx context.Context) (*Tenant, error) {
		return d.repo.Get(ctx, id)
	})
}

// GetBySubdomain resolves a tenant by subdomain.
func (d *Directory) GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error) {
	return d.fetch(ctx, "tenant:sub:"+subdomain, func(ctx context.Context) (*Tenant, error) {
		return d.repo.GetBySubdomain(ctx, subdomain)
	})
}

// IsActive reports whether the tenant exists and accepts authentication.
func (d *Directory) IsActive(ctx context.Context, id string) (bool, error) {
	t, err := d.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return t.Status.Active(), nil
}

// Invalidate drops cached entries for a tenant after a write.
func (d *Directory) Invalidate(ctx context.Context, t *Tenant) {
	if d.client == nil || t == nil {
		return
	}
	_ = d.client.Del(ctx, "tenant:id:"+t.ID, "tenant:sub:"+t.Subdomain).Err()
}

func (d *Directory) fetch(ctx context.Context, key string, load func(context.Context) (*Tenant, error)) (*Tenant, error) {
	if d.client == nil {
		return load(ctx)
	}
	if data, err := d.client.Get(ctx, key).Bytes(); err == nil {
		var t Tenant
		if err := json.Unmarshal(data, &t); err == nil {
			return &t, nil
		}
	}

	ch := d.group.DoChan(key, func() (any, error) {
		// The flight outlives the caller that started it: if that
		// caller cancels, concurrent waiters on the same key must
		// still get an answer.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		t, err := load(flightCtx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(t); err == nil {
			_ = d.client.Set(flightCtx, key, data, d.ttl).Err()
		}
		return t, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Tenant), nil
	}
}
