package ports

import "context"

// Identity is the authenticated principal produced by an Authenticator or
// recovered from a bearer token. It is passed explicitly, never stored globally.
type Identity struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// HasRole reports whether the identity holds role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PasswordHasher performs one-way password hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Authenticator verifies an email/password pair.
type Authenticator interface {
	// Authenticate returns domain.ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

// TokenIssuer issues opaque bearer tokens bound to an identity.
type TokenIssuer interface {
	Issue(identity Identity) (string, error)
}

// TokenParser recovers the identity a token was issued for.
type TokenParser interface {
	Parse(token string) (*Identity, error)
}
