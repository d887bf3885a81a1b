package user

import "context"

// Repository defines data access for admin accounts.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	// ListUsers returns every account, oldest first.
	ListUsers(ctx context.Context) ([]*User, error)
}
