package user

import (
	"context"
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	// UsernameForID resolves the tenant username owning a user id. Storage
	// paths are username-scoped, so every asset operation goes through this.
	UsernameForID(ctx context.Context, id int64) (string, error)
}
