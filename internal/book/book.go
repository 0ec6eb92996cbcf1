package book

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidCopies is returned for a total below one or below the copies on loan.
	ErrInvalidCopies = errors.New("invalid number of copies")
	// ErrInUse is returned when deleting a book that still has active borrowings.
	ErrInUse = errors.New("book has active borrowings")
)

// Book is a catalog entry. AvailableCopies always equals TotalCopies minus
// the number of active borrowings of the book.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	HasDigitalCopy  bool      `json:"hasDigitalCopy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAvailable reports whether at least one copy can be lent.
func (b Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// OnLoan is the number of copies currently lent out.
func (b Book) OnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// AdjustCopies sets a new total and moves AvailableCopies by the same delta.
// A total below the copies already on loan is rejected so that
// 0 <= AvailableCopies <= TotalCopies keeps holding.
func AdjustCopies(b Book, newTotal int) (Book, error) {
	if newTotal < 1 {
		return b, fmt.Errorf("%w: total copies must be at least 1", ErrInvalidCopies)
	}
	if onLoan := b.OnLoan(); newTotal < onLoan {
		return b, fmt.Errorf("%w: %d copies are on loan", ErrInvalidCopies, onLoan)
	}
	b.AvailableCopies += newTotal - b.TotalCopies
	b.TotalCopies = newTotal
	return b, nil
}

// Sort orders for Query.
const (
	SortTitle     = "title"
	SortAvailable = "available"
	SortNewest    = "newest"
	// SortRandom samples the matching rows in no particular order.
	SortRandom = "random"
)

// Query defines filters and pagination for listing books.
// Keyword matches title, author or genre; the other text filters are
// case-insensitive substring matches except Genre, which matches exactly.
type Query struct {
	Keyword       string
	Title         string
	Author        string
	Genre         string
	Genres        []string
	AvailableOnly bool
	DigitalOnly   bool
	ExcludeIDs    []int64
	Sort          string
	Limit         int
	Offset        int
}

// Input carries the editable fields of a book.
type Input struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Author      string `json:"author" validate:"max=100"`
	Genre       string `json:"genre" validate:"max=50"`
	TotalCopies int    `json:"totalCopies"`
}
