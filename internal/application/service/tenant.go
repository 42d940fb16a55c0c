package service

import (
	"context"

	"github.com/khoahotran/portfolio-api/internal/domain/user"
	"github.com/khoahotran/portfolio-api/pkg/cache"
	"github.com/khoahotran/portfolio-api/pkg/keys"
)

// TenantResolver maps a persisted user id to the tenant username that scopes
// cache keys and storage paths. Ids alone are not an isolation boundary, so
// every asset or list operation resolves the username first. The mapping is
// immutable in practice and cached like any other entity read.
type TenantResolver struct {
	users user.Repository
	cache cache.Store
}

func NewTenantResolver(users user.Repository, cacheStore cache.Store) *TenantResolver {
	return &TenantResolver{users: users, cache: cacheStore}
}

func (t *TenantResolver) Username(ctx context.Context, userID int64) (string, error) {
	return cache.GetOrCompute(ctx, t.cache, keys.UserKey(userID, keys.VariantUsername), keys.EntityTTL,
		func(ctx context.Context) (string, error) {
			return t.users.UsernameForID(ctx, userID)
		})
}
