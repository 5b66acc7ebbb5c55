package ports

import (
	"context"

	"github.com/akira/credential-service/internal/core/domain"
)

// RoleRepository resolves provisioned roles by name.
type RoleRepository interface {
	// FindByName returns domain.ErrRoleNotFound when the role does not exist.
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}
