package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/akira/credential-service/internal/core/domain"
	"github.com/akira/credential-service/internal/core/ports"
)

const (
	msgRegistered      = "user registered"
	msgAuthenticated   = "authentication succeeded"
	msgPasswordUpdated = "password updated"
)

// AuthService implements registration, login and password rotation. It holds
// only its collaborators, so one instance serves concurrent requests.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	authn  ports.Authenticator
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	authn ports.Authenticator,
	tokens ports.TokenIssuer,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		authn:  authn,
		tokens: tokens,
		logger: logger,
	}
}

// Register opens a new account holding the default role. The existence check
// is only a pre-check: a duplicate rejected by the store surfaces as the same
// domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Response[ports.RegisteredUser], error) {
	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	}
	if exists {
		s.logger.Info().Str("email", in.Email).Msg("registration rejected, email taken")
		return nil, fmt.Errorf("register %s: %w", in.Email, domain.ErrEmailTaken)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.logger.Error().Str("role", domain.RoleUser).Msg("default role is not provisioned")
			return nil, domain.ErrDefaultRoleMissing
		}
		return nil, fmt.Errorf("register: resolve role: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Save(ctx, &domain.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		Phone:        in.Phone,
		Payment:      in.Payment,
		PasswordHash: hash,
		Roles:        []domain.Role{*role},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: save user: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	return ports.Success(msgRegistered, toRegisteredUser(created)), nil
}

// Login verifies credentials and issues a bearer token for the resulting
// identity.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Response[ports.TokenResult], error) {
	identity, err := s.authn.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Str("email", in.Email).Msg("authenticated user vanished from store")
			return nil, domain.ErrIdentityNotResolved
		}
		return nil, fmt.Errorf("login: load user: %w", err)
	}

	token, err := s.tokens.Issue(*identity)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")

	return ports.Success(msgAuthenticated, ports.TokenResult{
		Token:   token,
		ID:      user.ID,
		Name:    user.Name,
		Surname: user.Surname,
		Phone:   user.Phone,
		Email:   user.Email,
	}), nil
}

// UpdatePassword replaces the stored hash after checking the current password.
func (s *AuthService) UpdatePassword(ctx context.Context, in ports.UpdatePasswordInput) (*ports.Response[ports.Empty], error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	if !s.hasher.Verify(in.OldPassword, user.PasswordHash) {
		s.logger.Info().Str("user_id", user.ID).Msg("password update rejected, wrong current password")
		return nil, domain.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("update password: hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update password: save user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password updated")

	return ports.Success(msgPasswordUpdated, ports.Empty{}), nil
}

func toRegisteredUser(u *domain.User) ports.RegisteredUser {
	return ports.RegisteredUser{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Phone:   u.Phone,
		Payment: u.Payment,
		Roles:   u.RoleNames(),
	}
}
