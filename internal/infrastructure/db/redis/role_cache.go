package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/akira/credential-service/internal/core/domain"
	"github.com/akira/credential-service/internal/core/ports"
)

const defaultRoleTTL = 10 * time.Minute

// CachedRoleRepository is a read-through Redis cache in front of another
// ports.RoleRepository. Cache failures degrade to the wrapped store; absent
// roles are never cached.
// Key format: role:<namespace>:<name>
//
// Role IDs are store specific, so namespace must identify the store behind
// next (the store driver name).
type CachedRoleRepository struct {
	next      ports.RoleRepository
	client    *redis.Client
	namespace string
	ttl       time.Duration
	log       zerolog.Logger
}

func NewCachedRoleRepository(next ports.RoleRepository, client *redis.Client, namespace string, ttl time.Duration, log zerolog.Logger) *CachedRoleRepository {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &CachedRoleRepository{next: next, client: client, namespace: namespace, ttl: ttl, log: log}
}

func (c *CachedRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	key := c.key(name)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var role domain.Role
		if jsonErr := json.Unmarshal(raw, &role); jsonErr == nil {
			return &role, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding corrupt role cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("role cache read failed, using store")
	}

	role, err := c.next.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(role); err == nil {
		if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("role cache write failed")
		}
	}
	return role, nil
}

func (c *CachedRoleRepository) key(name string) string {
	return "role:" + c.namespace + ":" + name
}
