package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-crud-service/internal/adapter/cache"
	domain "user-crud-service/internal/domain/user"
	"user-crud-service/internal/usecase/user"
)

// UserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Reads use cache-aside; create and update write through; delete invalidates.
type UserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository creates a new caching decorator around dbRepo.
// A nil cache disables caching without changing behavior.
func NewUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &UserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create inserts via the DB repository and primes the cache with the result.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := r.dbRepo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, created); err != nil {
			r.log.Warn("failed to cache user after create", zap.Int64("id", created.ID), zap.Error(err))
		}
	}

	return created, nil
}

// GetByID retrieves a user by ID using the cache-aside pattern. Concurrent
// misses for the same ID are collapsed into a single database read.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Another request may have populated the cache while we waited
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// GetByEmail delegates to the DB repository. Email lookups only serve
// uniqueness checks and are not worth caching.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// Update updates the user in DB and writes the merged result through to the
// cache, so a read immediately after update sees the new values.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	updated, err := r.dbRepo.Update(ctx, u)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, updated); err != nil {
			r.log.Warn("failed to refresh cache after update", zap.Int64("id", updated.ID), zap.Error(err))
			// Stale entries are worse than missing ones
			if delErr := r.cache.Delete(ctx, updated.ID); delErr != nil {
				r.log.Warn("failed to invalidate cache after update", zap.Int64("id", updated.ID), zap.Error(delErr))
			}
		}
	}

	return updated, nil
}

// Delete deletes the user from DB and invalidates the cache.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.dbRepo.Delete(ctx, id); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, id); err != nil {
			r.log.Warn("failed to invalidate cache after delete", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

// List delegates to the DB repository. The collection is never cached; it
// would need invalidation on every mutation.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}
