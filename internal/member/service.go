package member

import (
	"context"
	"strings"

	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register opens a USER account with its member profile.
func (s *Service) Register(ctx context.Context, reg Registration) (Member, user.User, error) {
	reg = reg.normalized()
	hash, err := crypto.HashPassword(reg.Password)
	if err != nil {
		return Member{}, user.User{}, err
	}

	u := &user.User{Username: reg.Username, PasswordHash: hash, Role: crypto.RoleUser}
	m := &Member{FullName: reg.FullName, Email: reg.Email}
	if err := s.repo.CreateWithUser(ctx, u, m); err != nil {
		return Member{}, user.User{}, err
	}
	m.UserID = u.ID
	m.Username = u.Username
	return *m, *u, nil
}

func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id int64, upd Update) (Member, error) {
	upd.FullName = strings.TrimSpace(upd.FullName)
	upd.Email = strings.ToLower(strings.TrimSpace(upd.Email))
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
