// Package borrowing is the ledger of loans: who holds which copy, until when,
// and what they owe for keeping it late.
package borrowing

import (
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/fine"
)

var (
	ErrNotFound           = errors.New("borrowing not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrAlreadyBorrowed    = errors.New("member already holds this book")
	ErrAlreadyReturned    = errors.New("book has already been returned")
	ErrLimitExceeded      = errors.New("borrowing limit reached")
	ErrNotAvailable       = errors.New("no copy available")
	ErrInvariantViolation = errors.New("copy count invariant violated")
	ErrNotOwner           = errors.New("borrowing belongs to another member")
)

// Borrowing is one loan of one copy. ReturnDate is nil while the loan is active.
type Borrowing struct {
	ID         int64       `json:"id"`
	MemberID   int64       `json:"memberId"`
	BookID     int64       `json:"bookId"`
	BookTitle  string      `json:"bookTitle"`
	BookAuthor string      `json:"bookAuthor"`
	BorrowDate time.Time   `json:"borrowDate"`
	DueDate    time.Time   `json:"dueDate"`
	ReturnDate *time.Time  `json:"returnDate"`
	Fine       fine.Amount `json:"fine"`
}

func (b Borrowing) IsActive() bool { return b.ReturnDate == nil }

// IsOverdue reports whether the loan is still out on a date after its due date.
func (b Borrowing) IsOverdue(asOf time.Time) bool {
	return b.IsActive() && fine.DaysOverdue(b.DueDate, asOf) > 0
}

// Rules are the lending limits applied to every borrow and return.
type Rules struct {
	LoanDays  int
	MaxActive int
	Fines     fine.Policy
}

var DefaultRules = Rules{LoanDays: 14, MaxActive: 5, Fines: fine.DefaultPolicy}

// State is what the ledger knows about a member and a locked book when a borrow is decided.
type State struct {
	MemberID    int64
	Book        book.Book
	ActiveCount int
	HoldsBook   bool
}

// DecideBorrow checks the lending rules against s and returns the new loan and the
// book with one copy fewer on the shelf. Checks run in a fixed order so the
// reported reason is stable: duplicate, then limit, then availability.
func (r Rules) DecideBorrow(s State, today time.Time) (Borrowing, book.Book, error) {
	if s.HoldsBook {
		return Borrowing{}, s.Book, ErrAlreadyBorrowed
	}
	if s.ActiveCount >= r.MaxActive {
		return Borrowing{}, s.Book, fmt.Errorf("%w: maximum of %d active borrowings", ErrLimitExceeded, r.MaxActive)
	}
	if !s.Book.IsAvailable() {
		return Borrowing{}, s.Book, ErrNotAvailable
	}

	bk := s.Book
	bk.AvailableCopies--
	if bk.AvailableCopies < 0 || bk.AvailableCopies > bk.TotalCopies {
		return Borrowing{}, s.Book, fmt.Errorf("%w: book %d would have %d of %d copies available",
			ErrInvariantViolation, bk.ID, bk.AvailableCopies, bk.TotalCopies)
	}

	day := fine.Date(today)
	return Borrowing{
		MemberID:   s.MemberID,
		BookID:     bk.ID,
		BookTitle:  bk.Title,
		BookAuthor: bk.Author,
		BorrowDate: day,
		DueDate:    day.AddDate(0, 0, r.LoanDays),
	}, bk, nil
}

// SettleReturn closes an active loan on today, charges the late fine and puts
// the copy back on the shelf.
func (r Rules) SettleReturn(b Borrowing, bk book.Book, today time.Time) (Borrowing, book.Book, error) {
	if !b.IsActive() {
		return b, bk, ErrAlreadyReturned
	}

	bk.AvailableCopies++
	if bk.AvailableCopies > bk.TotalCopies {
		return b, bk, fmt.Errorf("%w: book %d would have %d of %d copies available",
			ErrInvariantViolation, bk.ID, bk.AvailableCopies, bk.TotalCopies)
	}

	day := fine.Date(today)
	b.ReturnDate = &day
	b.Fine = r.Fines.Fine(b.DueDate, day)
	return b, bk, nil
}
