package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akira/credential-service/internal/core/domain"
)

// countingHasher records Verify calls and accepts "good" only.
type countingHasher struct {
	verifies int
	hashErr  error
}

func (h *countingHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hash:" + p, nil
}

func (h *countingHasher) Verify(p, hash string) bool {
	h.verifies++
	return hash == "hash:"+p
}

func seededUsers(t *testing.T) *memUserRepo {
	t.Helper()
	users := newMemUserRepo()
	_, err := users.Save(context.Background(), &domain.User{
		Email:        "a@x.com",
		PasswordHash: "hash:good",
		Roles:        []domain.Role{{ID: "r1", Name: domain.RoleUser}},
	})
	require.NoError(t, err)
	return users
}

func TestCredentialAuthenticator_Success(t *testing.T) {
	authn, err := NewCredentialAuthenticator(seededUsers(t), &countingHasher{})
	require.NoError(t, err)

	id, err := authn.Authenticate(context.Background(), "a@x.com", "good")
	require.NoError(t, err)
	assert.Equal(t, "1", id.UserID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, []string{domain.RoleUser}, id.Roles)
}

func TestCredentialAuthenticator_WrongPassword(t *testing.T) {
	authn, err := NewCredentialAuthenticator(seededUsers(t), &countingHasher{})
	require.NoError(t, err)

	id, err := authn.Authenticate(context.Background(), "a@x.com", "bad")
	assert.Nil(t, id)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCredentialAuthenticator_UnknownEmailStillVerifies(t *testing.T) {
	h := &countingHasher{}
	authn, err := NewCredentialAuthenticator(seededUsers(t), h)
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "ghost@x.com", "good")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 1, h.verifies)
}

func TestCredentialAuthenticator_EmptyInput(t *testing.T) {
	authn, err := NewCredentialAuthenticator(seededUsers(t), &countingHasher{})
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "", "good")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = authn.Authenticate(context.Background(), "a@x.com", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCredentialAuthenticator_StoreError(t *testing.T) {
	users := seededUsers(t)
	users.findErr = errStore
	authn, err := NewCredentialAuthenticator(users, &countingHasher{})
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "a@x.com", "good")
	assert.ErrorIs(t, err, errStore)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestNewCredentialAuthenticator_HashFailure(t *testing.T) {
	_, err := NewCredentialAuthenticator(newMemUserRepo(), &countingHasher{hashErr: errors.New("boom")})
	assert.Error(t, err)
}
