package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/akira/credential-service/internal/core/domain"
)

func TestWriteError_UniqueViolation(t *testing.T) {
	cases := map[string]error{
		"translated by gorm": gorm.ErrDuplicatedKey,
		"raw pg error":       &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
		"wrapped pg error":   fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}),
	}
	for name, err := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, isUniqueViolation(err))
			assert.ErrorIs(t, writeError(err, "insert user"), domain.ErrEmailTaken)
		})
	}
}

func TestWriteError_OtherErrorsAreWrapped(t *testing.T) {
	cause := &pgconn.PgError{Code: "23502", Message: "null value in column"}

	err := writeError(cause, "insert user")

	assert.False(t, isUniqueViolation(cause))
	assert.NotErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, cause, errors.Cause(err))
	assert.Contains(t, err.Error(), "insert user")
}
