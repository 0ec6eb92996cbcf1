package user

import (
	"errors"
	"strings"
	"time"

	"libraryapi/internal/platform/crypto"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEntry = errors.New("username already taken")
	ErrInvalidRole    = errors.New("invalid role")
)

// User is a login account. Members reference it one to one; admins usually have no member.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ParseRole accepts USER or ADMIN in any case.
func ParseRole(s string) (string, error) {
	switch role := strings.ToUpper(strings.TrimSpace(s)); role {
	case crypto.RoleUser, crypto.RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}
