package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-crud-service/internal/adapter/cache"
	"user-crud-service/internal/adapter/db/postgres"
	domain "user-crud-service/internal/domain/user"
	"user-crud-service/internal/usecase/user"
	pkgerrors "user-crud-service/pkg/errors"
)

func setupCachedRepo(t *testing.T) (user.Repository, *redis.Client) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	dbRepo := postgres.NewUserRepoPG(db, log)
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, log)

	return NewUserRepository(dbRepo, userCache, log), client
}

func TestCachedRepository_Create_PrimesCache(t *testing.T) {
	repo, client := setupCachedRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Anya Forger", Email: "anya@example.com"})
	require.NoError(t, err)

	// The created user is readable straight from Redis
	exists, err := client.Exists(ctx, "user:1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
	assert.Equal(t, int64(1), created.ID)
}

func TestCachedRepository_GetByID_ServesFromCache(t *testing.T) {
	repo, client := setupCachedRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Anya Forger", Email: "anya@example.com"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anya Forger", got.Name)

	// Drop the cache entry and read again: falls back to the database
	require.NoError(t, client.Del(ctx, "user:1").Err())
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anya Forger", got.Name)
}

func TestCachedRepository_Update_WritesThrough(t *testing.T) {
	repo, client := setupCachedRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Anya Forger", Email: "anya@example.com"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, &domain.User{ID: created.ID, Name: "Twilight"})
	require.NoError(t, err)
	assert.Equal(t, "Twilight", updated.Name)
	assert.Equal(t, "anya@example.com", updated.Email)

	// Cache reflects the merged result immediately
	data, err := client.Get(ctx, "user:1").Result()
	require.NoError(t, err)
	assert.Contains(t, data, "Twilight")
	assert.Contains(t, data, "anya@example.com")
}

func TestCachedRepository_Delete_Invalidates(t *testing.T) {
	repo, client := setupCachedRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Anya Forger", Email: "anya@example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	exists, err := client.Exists(ctx, "user:1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	var notFoundErr *pkgerrors.NotFoundError
	_, err = repo.GetByID(ctx, created.ID)
	assert.True(t, errors.As(err, &notFoundErr))
}

func TestCachedRepository_NilCacheDisablesCaching(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	log := zaptest.NewLogger(t)
	repo := NewUserRepository(postgres.NewUserRepoPG(db, log), nil, log)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Name: "Anya Forger", Email: "anya@example.com"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anya Forger", got.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
}
