package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/akira/credential-service/internal/core/domain"
)

// SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// UserRepository implements ports.UserRepository on PostgreSQL. The unique
// index on users.email enforces the uniqueness invariant.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "count users by email")
	}
	return n > 0, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m userModel
	err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by email")
	}
	return toDomainUser(&m), nil
}

// Save inserts users without an ID together with their role links, and
// updates the scalar columns of existing users otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := fromDomainUser(user)

	if m.ID == "" {
		// Roles are provisioned elsewhere; only the join rows are written.
		if err := r.db.WithContext(ctx).Omit("Roles.*").Create(m).Error; err != nil {
			return nil, writeError(err, "insert user")
		}
		return toDomainUser(m), nil
	}

	res := r.db.WithContext(ctx).Model(&userModel{ID: m.ID}).
		Select("name", "surname", "email", "phone", "payment", "password_hash", "updated_at").
		Updates(m)
	if res.Error != nil {
		return nil, writeError(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return toDomainUser(m), nil
}

// writeError maps a unique violation on users.email to domain.ErrEmailTaken
// and wraps anything else.
func writeError(err error, op string) error {
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return errors.Wrap(err, op)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
