package borrowing

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=borrowing

import (
	"context"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/fine"
)

// Filter selects loans by state.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterReturned
)

// Repository defines the contract for borrowing storage.
type Repository interface {
	// Borrow locks the member and the book, loads their State and stores what
	// decide returns, all in one transaction.
	Borrow(ctx context.Context, memberID, bookID int64, decide func(State) (Borrowing, book.Book, error)) (Borrowing, error)
	// Return locks the loan and its book and stores what settle returns in one transaction.
	Return(ctx context.Context, id int64, settle func(Borrowing, book.Book) (Borrowing, book.Book, error)) (Borrowing, error)
	GetByID(ctx context.Context, id int64) (Borrowing, error)
	ListByMember(ctx context.Context, memberID int64, filter Filter) ([]Borrowing, error)
	ListByBook(ctx context.Context, bookID int64) ([]Borrowing, error)
	// ListOverdue returns active loans whose due date is before asOf.
	ListOverdue(ctx context.Context, asOf time.Time) ([]Borrowing, error)
	ListAll(ctx context.Context, limit, offset int) ([]Borrowing, int, error)
	// RecalculateFines stores compute's result for every active overdue loan and
	// reports how many fines changed.
	RecalculateFines(ctx context.Context, asOf time.Time, compute func(Borrowing) fine.Amount) (int, error)
	TotalFines(ctx context.Context, memberID int64) (fine.Amount, error)
}
