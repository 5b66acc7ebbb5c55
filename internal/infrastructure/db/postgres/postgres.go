// Package postgres is the PostgreSQL-backed user and role store, built on gorm.
package postgres

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/akira/credential-service/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection settings for the PostgreSQL store.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a gorm session over the pgx driver and verifies it with a ping.
// SQL statements are logged through logger at warn level and above.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			log.New(logger, "", 0),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, errors.Wrap(err, "postgres open")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres sql.DB")
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "postgres ping")
	}

	return db, nil
}

// Bootstrap migrates the schema and, when seed is set, provisions the default
// role.
func Bootstrap(ctx context.Context, db *gorm.DB, seed bool) error {
	if err := db.WithContext(ctx).AutoMigrate(&roleModel{}, &userModel{}); err != nil {
		return errors.Wrap(err, "postgres migrate")
	}
	if seed {
		return NewRoleRepository(db).Seed(ctx, domain.RoleUser)
	}
	return nil
}
