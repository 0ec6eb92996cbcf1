package digital

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=digital

import (
	"context"
	"io"
	"os"

	"libraryapi/internal/book"
)

// Repository stores asset records and keeps books.has_digital_copy in step with them.
type Repository interface {
	// Create inserts the asset and flags its book as having a digital copy.
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id int64) (Asset, error)
	GetByFileName(ctx context.Context, name string) (Asset, error)
	// UpdateFormat stores a's format together with its file names and URL.
	UpdateFormat(ctx context.Context, a Asset) (Asset, error)
	// Delete removes the record, clears the book flag when it was the last
	// asset, and returns what was deleted.
	Delete(ctx context.Context, id int64) (Asset, error)
	List(ctx context.Context, f Filter) ([]Asset, error)
}

// BlobStore keeps file contents by opaque name.
type BlobStore interface {
	Put(name string, r io.Reader) (int64, error)
	Open(name string) (*os.File, error)
	Rename(from, to string) error
	Delete(name string) error
}

// BookFinder resolves the book an upload is attached to.
type BookFinder interface {
	GetByID(ctx context.Context, id int64) (book.Book, error)
}
