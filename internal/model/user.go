package model

import "time"

// Role is the fixed set of account roles.  A user's role is set at
// registration and never changes afterwards.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleStudent || r == RoleAdmin }

// User represents an application account as stored in the `users` table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name.
//	PasswordHash – bcrypt hash; never serialized.
//	Role         – student or admin.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"-"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// PublicUser is the `{id, username, role}` shape returned by the auth endpoints.
type PublicUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Public strips the user down to the fields clients may see.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}
