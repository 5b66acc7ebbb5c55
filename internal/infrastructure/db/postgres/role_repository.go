package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/akira/credential-service/internal/core/domain"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, errors.Wrap(err, "find role by name")
	}
	return &domain.Role{ID: m.ID, Name: m.Name}, nil
}

// Seed creates the named roles that do not exist yet.
func (r *RoleRepository) Seed(ctx context.Context, names ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, name := range names {
		var m roleModel
		if err := r.db.WithContext(ctx).Where(roleModel{Name: name}).FirstOrCreate(&m).Error; err != nil {
			return errors.Wrapf(err, "seed role %s", name)
		}
	}
	return nil
}
