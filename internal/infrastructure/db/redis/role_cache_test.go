package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akira/credential-service/internal/core/domain"
)

type stubRoleRepo struct {
	calls int
	role  *domain.Role
	err   error
}

func (s *stubRoleRepo) FindByName(context.Context, string) (*domain.Role, error) {
	s.calls++
	return s.role, s.err
}

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func inProcessRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestCachedRoleRepository_MissFillsCache(t *testing.T) {
	mr, client := inProcessRedis(t)
	next := &stubRoleRepo{role: &domain.Role{ID: "r1", Name: domain.RoleUser}}
	repo := NewCachedRoleRepository(next, client, "mongo", time.Minute, zerolog.Nop())

	role, err := repo.FindByName(context.Background(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "r1", role.ID)
	assert.Equal(t, 1, next.calls)

	raw, err := mr.Get("role:mongo:ROLE_USER")
	require.NoError(t, err)
	var cached domain.Role
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, *role, cached)
	assert.Equal(t, time.Minute, mr.TTL("role:mongo:ROLE_USER"))
}

func TestCachedRoleRepository_HitSkipsStore(t *testing.T) {
	mr, client := inProcessRedis(t)
	require.NoError(t, mr.Set("role:mongo:ROLE_USER", `{"id":"cached","name":"ROLE_USER"}`))
	next := &stubRoleRepo{role: &domain.Role{ID: "r1", Name: domain.RoleUser}}
	repo := NewCachedRoleRepository(next, client, "mongo", time.Minute, zerolog.Nop())

	role, err := repo.FindByName(context.Background(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "cached", role.ID)
	assert.Zero(t, next.calls)
}

func TestCachedRoleRepository_CorruptEntryIsReplaced(t *testing.T) {
	mr, client := inProcessRedis(t)
	require.NoError(t, mr.Set("role:mongo:ROLE_USER", "{not json"))
	next := &stubRoleRepo{role: &domain.Role{ID: "r1", Name: domain.RoleUser}}
	repo := NewCachedRoleRepository(next, client, "mongo", time.Minute, zerolog.Nop())

	role, err := repo.FindByName(context.Background(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "r1", role.ID)
	assert.Equal(t, 1, next.calls)

	raw, err := mr.Get("role:mongo:ROLE_USER")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","name":"ROLE_USER"}`, raw)
}

func TestCachedRoleRepository_NamespacesByStore(t *testing.T) {
	mr, client := inProcessRedis(t)
	pgRoles := &stubRoleRepo{role: &domain.Role{ID: "0b6c2f7e-8f61-4b1e-9a0e-0f6f1d0c9b1a", Name: domain.RoleUser}}
	mongoRoles := &stubRoleRepo{role: &domain.Role{ID: "665f1c2e9b1d8a0012345678", Name: domain.RoleUser}}

	_, err := NewCachedRoleRepository(pgRoles, client, "postgres", time.Minute, zerolog.Nop()).
		FindByName(context.Background(), domain.RoleUser)
	require.NoError(t, err)

	role, err := NewCachedRoleRepository(mongoRoles, client, "mongo", time.Minute, zerolog.Nop()).
		FindByName(context.Background(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2e9b1d8a0012345678", role.ID)
	assert.Equal(t, 1, mongoRoles.calls)
	assert.True(t, mr.Exists("role:postgres:ROLE_USER"))
	assert.True(t, mr.Exists("role:mongo:ROLE_USER"))
}

func TestCachedRoleRepository_NotFoundIsNotCached(t *testing.T) {
	mr, client := inProcessRedis(t)
	next := &stubRoleRepo{err: domain.ErrRoleNotFound}
	repo := NewCachedRoleRepository(next, client, "mongo", time.Minute, zerolog.Nop())

	_, err := repo.FindByName(context.Background(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	assert.False(t, mr.Exists("role:mongo:ROLE_USER"))
}

func TestCachedRoleRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	next := &stubRoleRepo{role: &domain.Role{ID: "r1", Name: domain.RoleUser}}
	repo := NewCachedRoleRepository(next, unreachableClient(t), "mongo", time.Minute, zerolog.Nop())

	role, err := repo.FindByName(context.Background(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "r1", role.ID)
	assert.Equal(t, 1, next.calls)
}

func TestCachedRoleRepository_PropagatesNotFound(t *testing.T) {
	next := &stubRoleRepo{err: domain.ErrRoleNotFound}
	repo := NewCachedRoleRepository(next, unreachableClient(t), "mongo", time.Minute, zerolog.Nop())

	_, err := repo.FindByName(context.Background(), domain.RoleUser)
	assert.True(t, errors.Is(err, domain.ErrRoleNotFound))
}

func TestCachedRoleRepository_DefaultTTL(t *testing.T) {
	repo := NewCachedRoleRepository(&stubRoleRepo{}, unreachableClient(t), "postgres", 0, zerolog.Nop())
	assert.Equal(t, defaultRoleTTL, repo.ttl)
	assert.Equal(t, "role:postgres:ROLE_USER", repo.key(domain.RoleUser))
}
