package ports

import "context"

// RegisterInput carries the data needed to open a new account.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Phone    string
	Payment  string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// UpdatePasswordInput carries a password rotation request.
type UpdatePasswordInput struct {
	Email       string
	OldPassword string
	NewPassword string
}

// RegisteredUser is the public projection of a newly created account.
type RegisteredUser struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Surname string   `json:"surname"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Payment string   `json:"payment"`
	Roles   []string `json:"roles"`
}

// TokenResult is returned by a successful login. It never carries the
// password hash.
type TokenResult struct {
	Token   string `json:"token"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// AuthService is the credential lifecycle exposed to the transport layer.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Response[RegisteredUser], error)
	Login(ctx context.Context, in LoginInput) (*Response[TokenResult], error)
	UpdatePassword(ctx context.Context, in UpdatePasswordInput) (*Response[Empty], error)
}
