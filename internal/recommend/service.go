package recommend

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"libraryapi/internal/book"
)

// candidatePool bounds how many catalog rows a heuristic reads before ranking.
const candidatePool = book.MaxPageSize

type Service struct {
	catalog Catalog
	history HistoryRepository
	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

type Option func(*Service)

// WithShuffle replaces the random permutation used by ByMood.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(s *Service) { s.shuffle = fn }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(catalog Catalog, history HistoryRepository, opts ...Option) *Service {
	s := &Service{catalog: catalog, history: history, shuffle: rand.Shuffle, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Popular ranks books by all-time borrow count and fills up with the newest additions.
func (s *Service) Popular(ctx context.Context) ([]book.Book, error) {
	ranked, err := s.catalog.MostBorrowed(ctx, time.Time{}, MaxResults)
	if err != nil {
		return nil, err
	}
	p := newPicker()
	p.add(ranked...)
	if p.full() {
		return p.books, nil
	}

	filler, _, err := s.catalog.List(ctx, book.Query{
		Sort:       book.SortNewest,
		ExcludeIDs: p.ids(),
		Limit:      MaxResults - len(p.books),
	})
	if err != nil {
		return nil, err
	}
	p.add(filler...)
	return p.books, nil
}

// Trending ranks books borrowed during the last month.
func (s *Service) Trending(ctx context.Context) ([]book.Book, error) {
	ranked, err := s.catalog.MostBorrowed(ctx, s.now().AddDate(0, -1, 0), MaxResults)
	if err != nil {
		return nil, err
	}
	p := newPicker()
	p.add(ranked...)
	return p.books, nil
}

// ByMood returns a random sample of books from the genres matching mood. The
// catalog draws the candidate pool at random, so every matching book can appear.
func (s *Service) ByMood(ctx context.Context, mood string) ([]book.Book, error) {
	books, _, err := s.catalog.List(ctx, book.Query{Genres: GenresForMood(mood), Sort: book.SortRandom, Limit: candidatePool})
	if err != nil {
		return nil, err
	}
	s.shuffle(len(books), func(i, j int) { books[i], books[j] = books[j], books[i] })
	p := newPicker()
	p.add(books...)
	return p.books, nil
}

// ByGenre lists books of genre with the ones on the shelf first.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]book.Book, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return []book.Book{}, nil
	}
	books, _, err := s.catalog.List(ctx, book.Query{Genre: genre, Sort: book.SortAvailable, Limit: MaxResults})
	if err != nil {
		return nil, err
	}
	p := newPicker()
	p.add(books...)
	return p.books, nil
}

// Personalized suggests unread books from the genres a member has borrowed.
// Members without history get Popular.
func (s *Service) Personalized(ctx context.Context, memberID int64) ([]book.Book, error) {
	h, err := s.history.MemberHistory(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(h.Genres) == 0 {
		return s.Popular(ctx)
	}

	p := newPicker(h.BookIDs...)
	books, _, err := s.catalog.List(ctx, book.Query{Genres: h.Genres, ExcludeIDs: h.BookIDs, Limit: MaxResults})
	if err != nil {
		return nil, err
	}
	p.add(books...)
	if len(p.books) >= padThreshold {
		return p.books, nil
	}

	popular, err := s.Popular(ctx)
	if err != nil {
		return nil, err
	}
	p.add(popular...)
	return p.books, nil
}

// Similar lists books by the same author, padded with the same genre when short.
// An unknown book has no similar books.
func (s *Service) Similar(ctx context.Context, bookID int64) ([]book.Book, error) {
	src, err := s.catalog.GetByID(ctx, bookID)
	if errors.Is(err, book.ErrNotFound) {
		return []book.Book{}, nil
	}
	if err != nil {
		return nil, err
	}

	p := newPicker(src.ID)
	if src.Author != "" {
		candidates, _, err := s.catalog.List(ctx, book.Query{Author: src.Author, ExcludeIDs: []int64{src.ID}, Limit: candidatePool})
		if err != nil {
			return nil, err
		}
		for _, b := range candidates {
			if strings.EqualFold(b.Author, src.Author) {
				p.add(b)
			}
		}
	}
	if len(p.books) >= padThreshold || src.Genre == "" {
		return p.books, nil
	}

	sameGenre, _, err := s.catalog.List(ctx, book.Query{Genre: src.Genre, ExcludeIDs: p.ids(), Limit: MaxResults})
	if err != nil {
		return nil, err
	}
	p.add(sameGenre...)
	return p.books, nil
}

func (s *Service) Moods() []string {
	return Moods()
}
