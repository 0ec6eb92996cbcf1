package user

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=user

import (
	"context"
)

type Repository interface {
	// Create fails with ErrDuplicateEntry when the username is taken.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id, role string) (User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}
