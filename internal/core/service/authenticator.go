package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akira/credential-service/internal/core/domain"
	"github.com/akira/credential-service/internal/core/ports"
)

// dummyPassword is hashed once per authenticator so that lookups of unknown
// emails still cost one hash comparison.
const dummyPassword = "credential-service-timing-equalizer"

// CredentialAuthenticator checks email/password pairs against the user store.
type CredentialAuthenticator struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	dummyHash string
}

func NewCredentialAuthenticator(users ports.UserRepository, hasher ports.PasswordHasher) (*CredentialAuthenticator, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("authenticator: hash dummy password: %w", err)
	}
	return &CredentialAuthenticator{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Authenticate returns the identity of the account matching email and
// password. Unknown emails and wrong passwords yield the same
// domain.ErrInvalidCredentials.
func (a *CredentialAuthenticator) Authenticate(ctx context.Context, email, password string) (*ports.Identity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.hasher.Verify(password, a.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.RoleNames(),
	}, nil
}
