package book

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func normalizePage(q *Query) {
	if q.Limit <= 0 || q.Limit > MaxPageSize {
		q.Limit = DefaultPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// List returns a page of books matching the query and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	normalizePage(&q)
	q.Keyword = strings.TrimSpace(q.Keyword)
	return s.repo.List(ctx, q)
}

// Search matches the keyword against title, author and genre.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]Book, error) {
	books, _, err := s.List(ctx, Query{Keyword: keyword, Limit: limit})
	return books, err
}

// Available lists books with at least one copy on the shelf.
func (s *Service) Available(ctx context.Context, limit, offset int) ([]Book, int, error) {
	return s.List(ctx, Query{AvailableOnly: true, Limit: limit, Offset: offset})
}

// Digital lists books that have at least one digital file.
func (s *Service) Digital(ctx context.Context, limit, offset int) ([]Book, int, error) {
	return s.List(ctx, Query{DigitalOnly: true, Limit: limit, Offset: offset})
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return s.repo.Genres(ctx)
}

func (s *Service) MostBorrowed(ctx context.Context, since time.Time, limit int) ([]Book, error) {
	return s.repo.MostBorrowed(ctx, since, limit)
}

func clean(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	return in
}

// Create adds a book with every copy available.
func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	in = clean(in)
	if in.TotalCopies < 1 {
		return Book{}, fmt.Errorf("%w: total copies must be at least 1", ErrInvalidCopies)
	}
	b := &Book{
		Title:           in.Title,
		Author:          in.Author,
		Genre:           in.Genre,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}
	return *b, nil
}

// Update replaces the descriptive fields and adjusts the copy counts.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Book, error) {
	in = clean(in)
	return s.repo.Update(ctx, id, func(b Book) (Book, error) {
		b, err := AdjustCopies(b, in.TotalCopies)
		if err != nil {
			return b, err
		}
		b.Title = in.Title
		b.Author = in.Author
		b.Genre = in.Genre
		return b, nil
	})
}

// AdjustTotalCopies changes only the number of copies owned.
func (s *Service) AdjustTotalCopies(ctx context.Context, id int64, newTotal int) (Book, error) {
	return s.repo.Update(ctx, id, func(b Book) (Book, error) {
		return AdjustCopies(b, newTotal)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
