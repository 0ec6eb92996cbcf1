package wishlist

//go:generate mockgen -source=wishlist.go -destination=mock_repository.go -package=wishlist

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/book"
)

var (
	ErrNotFound       = errors.New("wishlist entry not found")
	ErrDuplicateEntry = errors.New("book already on wishlist")
)

// Entry is a book a member wants to read later.
type Entry struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"memberId"`
	Book      book.Book `json:"book"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	// Add fails with book.ErrNotFound for an unknown book and ErrDuplicateEntry when already listed.
	Add(ctx context.Context, memberID, bookID int64) (Entry, error)
	Remove(ctx context.Context, memberID, bookID int64) error
	// List returns the member's entries newest first.
	List(ctx context.Context, memberID int64) ([]Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, memberID, bookID int64) (Entry, error) {
	return s.repo.Add(ctx, memberID, bookID)
}

func (s *Service) Remove(ctx context.Context, memberID, bookID int64) error {
	return s.repo.Remove(ctx, memberID, bookID)
}

func (s *Service) List(ctx context.Context, memberID int64) ([]Entry, error) {
	return s.repo.List(ctx, memberID)
}
