// Package cache provides an in-process read-through cache in front of the admin repository.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/repository"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/constants"
)

const cacheTypePrincipal = "principal"

// CachedAdminRepository keeps recently loaded principals for a short TTL so that a burst of
// authenticated requests does not hit the database once per request. Only successful lookups
// are cached.
//
// A record changed or deleted outside this process stays visible until its entry expires.
// Principals returned from here never carry a password hash, so credential checks must go
// to the underlying repository.
type CachedAdminRepository struct {
	next    repository.AdminRepository
	cache   *gocache.Cache
	metrics service.Metrics
}

var _ repository.AdminRepository = (*CachedAdminRepository)(nil)

// NewCachedAdminRepository wraps next. A non-positive ttl returns next unchanged.
func NewCachedAdminRepository(next repository.AdminRepository, ttl time.Duration, metrics service.Metrics) repository.AdminRepository {
	if ttl <= 0 {
		return next
	}
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &CachedAdminRepository{
		next:    next,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (r *CachedAdminRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error) {
	key := constants.CacheKeyPrefixAdmin + identifier
	if v, ok := r.cache.Get(key); ok {
		r.metrics.RecordCacheAccess(cacheTypePrincipal, true)
		p := v.(models.Principal)
		return &p, nil
	}
	r.metrics.RecordCacheAccess(cacheTypePrincipal, false)

	p, err := r.next.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	snapshot := *p
	snapshot.PasswordHash = ""
	// Stored by value so callers never share a snapshot.
	r.cache.SetDefault(key, snapshot)
	return &snapshot, nil
}

func (r *CachedAdminRepository) Save(ctx context.Context, principal *models.Principal) error {
	if err := r.next.Save(ctx, principal); err != nil {
		return err
	}
	r.cache.Delete(constants.CacheKeyPrefixAdmin + principal.Identifier)
	return nil
}

func (r *CachedAdminRepository) Exists(ctx context.Context, identifier string) (bool, error) {
	if _, ok := r.cache.Get(constants.CacheKeyPrefixAdmin + identifier); ok {
		return true, nil
	}
	return r.next.Exists(ctx, identifier)
}
