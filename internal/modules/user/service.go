package user

import "context"

// Service manages admin accounts. Shoppers never have accounts; they are
// identified by their session alone.
type Service interface {
	RegisterUser(ctx context.Context, email, password, firstName, lastName string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}
