package book

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

import (
	"context"
	"time"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book) error
	// Update locks the book, applies fn and stores the result atomically.
	Update(ctx context.Context, id int64, fn func(Book) (Book, error)) (Book, error)
	Delete(ctx context.Context, id int64) error
	Genres(ctx context.Context) ([]string, error)
	// MostBorrowed ranks books by borrowings since the given time; zero means all time.
	MostBorrowed(ctx context.Context, since time.Time, limit int) ([]Book, error)
}
