package auth

import "context"

type UserStore interface {
	CreateUser(ctx context.Context, user User, passwordHash string) error
	FindUserByEmail(ctx context.Context, email string) (User, string, error)
	GetUser(ctx context.Context, id string) (User, error)
}
