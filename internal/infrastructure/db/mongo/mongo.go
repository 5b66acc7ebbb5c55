// Package mongo is the MongoDB-backed user and role store.
package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akira/credential-service/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "mongo connect")
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, errors.Wrap(err, "mongo ping")
	}

	return client, client.Database(cfg.Database), nil
}

// Bootstrap creates the indexes the repositories rely on and, when seed is
// set, provisions the default role.
func Bootstrap(ctx context.Context, users *UserRepository, roles *RoleRepository, seed bool) error {
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := roles.EnsureIndexes(ctx); err != nil {
		return err
	}
	if seed {
		return roles.Seed(ctx, domain.RoleUser)
	}
	return nil
}
