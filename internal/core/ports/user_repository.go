package ports

import (
	"context"

	"github.com/akira/credential-service/internal/core/domain"
)

// UserRepository persists user accounts. Implementations must enforce email
// uniqueness atomically and report a rejected duplicate as domain.ErrEmailTaken.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Save inserts the user when its ID is empty, assigning one, and updates it
	// otherwise.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
