package recommend

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=recommend

import (
	"context"
	"time"

	"libraryapi/internal/book"
)

// Catalog is the slice of book.Repository the heuristics read from.
type Catalog interface {
	List(ctx context.Context, q book.Query) ([]book.Book, int, error)
	GetByID(ctx context.Context, id int64) (book.Book, error)
	MostBorrowed(ctx context.Context, since time.Time, limit int) ([]book.Book, error)
}

type HistoryRepository interface {
	MemberHistory(ctx context.Context, memberID int64) (History, error)
}
