// @title           Akira Credential Service API
// @version         1.0
// @description     Registration, login and password management for the Akira shop.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/akira/credential-service/internal/api"
	"github.com/akira/credential-service/internal/api/handler"
	"github.com/akira/credential-service/internal/core/ports"
	"github.com/akira/credential-service/internal/core/service"
	mongostore "github.com/akira/credential-service/internal/infrastructure/db/mongo"
	pgstore "github.com/akira/credential-service/internal/infrastructure/db/postgres"
	rediscache "github.com/akira/credential-service/internal/infrastructure/db/redis"
	"github.com/akira/credential-service/internal/infrastructure/security"
	"github.com/akira/credential-service/internal/pkg/config"
	"github.com/akira/credential-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// store bundles the repositories of the selected driver with its lifecycle.
type store struct {
	users ports.UserRepository
	roles ports.RoleRepository
	check handler.DependencyCheck
	close func(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "credential-service",
	})

	if err := run(ctx, cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	checks := []handler.DependencyCheck{st.check}
	roles := st.roles

	if cfg.Redis.Enabled {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, role cache disabled")
		} else {
			defer rdb.Close()
			roles = rediscache.NewCachedRoleRepository(roles, rdb, cfg.StoreDriver, cfg.Redis.RoleTTL, log)
			checks = append(checks, handler.DependencyCheck{
				Name: "redis",
				Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			})
		}
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	authn, err := service.NewCredentialAuthenticator(st.users, hasher)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(st.users, roles, hasher, authn, tokens, log)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		TokenParser: tokens,
		Logger:      log,
		Checks:      checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := pgstore.Connect(ctx, pgstore.Config{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Bootstrap(ctx, db, cfg.SeedRoles); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &store{
			users: pgstore.NewUserRepository(db),
			roles: pgstore.NewRoleRepository(db),
			check: handler.DependencyCheck{Name: "postgres", Ping: sqlDB.PingContext},
			close: func(context.Context) error { return sqlDB.Close() },
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewUserRepository(db)
		roles := mongostore.NewRoleRepository(db)
		if err := mongostore.Bootstrap(ctx, users, roles, cfg.SeedRoles); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users: users,
			roles: roles,
			check: handler.DependencyCheck{
				Name: "mongodb",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: client.Disconnect,
		}, nil
	}
}
