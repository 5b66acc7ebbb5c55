package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akira/credential-service/internal/core/domain"
	"github.com/akira/credential-service/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

type memUserRepo struct {
	byEmail   map[string]*domain.User
	nextID    int
	saves     int
	existsErr error
	findErr   error
	saveErr   error
	// raceOnInsert makes the next insert fail as if a concurrent request had
	// claimed the email between the pre-check and the write.
	raceOnInsert bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]domain.Role(nil), u.Roles...)
	return &c
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if u.ID == "" {
		if _, taken := r.byEmail[u.Email]; taken || r.raceOnInsert {
			return nil, domain.ErrEmailTaken
		}
		r.nextID++
		u = cloneUser(u)
		u.ID = strconv.Itoa(r.nextID)
	}
	r.saves++
	r.byEmail[u.Email] = cloneUser(u)
	return cloneUser(u), nil
}

type memRoleRepo struct {
	roles map[string]*domain.Role
	err   error
}

func newMemRoleRepo(names ...string) *memRoleRepo {
	r := &memRoleRepo{roles: make(map[string]*domain.Role)}
	for i, n := range names {
		r.roles[n] = &domain.Role{ID: "role-" + strconv.Itoa(i+1), Name: n}
	}
	return r
}

func (r *memRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	if r.err != nil {
		return nil, r.err
	}
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	c := *role
	return &c, nil
}

var errStore = errors.New("store unavailable")

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	users  *memUserRepo
	roles  *memRoleRepo
	hasher *security.BcryptHasher
	tokens *security.JWTIssuer
	svc    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newMemUserRepo()
	roles := newMemRoleRepo(domain.RoleUser)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	tokens, err := security.NewJWTIssuer("secret", "akira", time.Hour)
	require.NoError(t, err)

	authn, err := NewCredentialAuthenticator(users, hasher)
	require.NoError(t, err)

	return &fixture{
		users:  users,
		roles:  roles,
		hasher: hasher,
		tokens: tokens,
		svc:    NewAuthService(users, roles, hasher, authn, tokens, zerolog.Nop()),
	}
}
