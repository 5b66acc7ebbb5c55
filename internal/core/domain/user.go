package domain

import "time"

// RoleUser is the role every registered account receives.
const RoleUser = "ROLE_USER"

// Role is a named permission group. Roles are provisioned out of band and are
// read-only for the credential service.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User models a customer account of the store.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Payment      string    `json:"payment"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleNames returns the names of the roles assigned to u.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
