package auth

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=auth

import (
	"context"
	"time"

	"libraryapi/internal/member"
	"libraryapi/internal/user"
)

type Accounts interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	HasAdmin(ctx context.Context) (bool, error)
	CreateAdmin(ctx context.Context, username, password string) (user.User, error)
}

type Members interface {
	Register(ctx context.Context, reg member.Registration) (member.Member, user.User, error)
	GetByUserID(ctx context.Context, userID string) (member.Member, error)
}

type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}
