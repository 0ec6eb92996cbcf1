package user

import (
	"context"
	"fmt"
	"strings"

	"libraryapi/internal/platform/crypto"
)

// TokenRevoker invalidates the tokens a user already holds.
type TokenRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

type Service struct {
	repo    Repository
	revoker TokenRevoker
}

type Option func(*Service)

// WithTokenRevoker makes ChangeRole revoke the user's existing tokens, which
// still carry the old role.
func WithTokenRevoker(r TokenRevoker) Option {
	return func(s *Service) { s.revoker = r }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// CreateAdmin adds an ADMIN account without a member profile.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	u := &User{Username: strings.TrimSpace(username), PasswordHash: hash, Role: crypto.RoleAdmin}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

// HasAdmin reports whether at least one ADMIN account exists.
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.repo.CountByRole(ctx, crypto.RoleAdmin)
	return n > 0, err
}

func (s *Service) ChangeRole(ctx context.Context, id, role string) (User, error) {
	r, err := ParseRole(role)
	if err != nil {
		return User{}, err
	}
	u, err := s.repo.UpdateRole(ctx, id, r)
	if err != nil {
		return User{}, err
	}
	if s.revoker != nil {
		if err := s.revoker.RevokeUser(ctx, id); err != nil {
			return User{}, fmt.Errorf("revoke tokens of user %s: %w", id, err)
		}
	}
	return u, nil
}
