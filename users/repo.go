package users

import "context"

// UserRepo stores local accounts. GetByEmail and GetByID return (nil, nil) when
// no user matches.
type UserRepo interface {
	// Create fails with errors.ErrEmailInUse when the email is taken.
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetDisabled(ctx context.Context, email string, disabled bool) error
}
