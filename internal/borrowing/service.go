package borrowing

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/fine"
	"libraryapi/internal/logging"
	"libraryapi/internal/metrics"
	"libraryapi/internal/platform/database"
)

// Actor is the caller of a ledger operation. Members may only touch their own loans.
type Actor struct {
	MemberID int64
	Admin    bool
}

func (a Actor) owns(b Borrowing) bool { return a.Admin || a.MemberID == b.MemberID }

// Service runs the lending rules against the ledger.
type Service struct {
	repo  Repository
	rules Rules
	now   func() time.Time
}

// NewService creates a borrowing service. A nil now uses the wall clock.
func NewService(repo Repository, rules Rules, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, rules: rules, now: now}
}

// Today is the service's current calendar date.
func (s *Service) Today() time.Time { return fine.Date(s.now()) }

func resultCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, book.ErrNotFound), errors.Is(err, ErrNotFound), errors.Is(err, ErrMemberNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyBorrowed):
		return "already_borrowed"
	case errors.Is(err, ErrAlreadyReturned):
		return "already_returned"
	case errors.Is(err, ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrNotAvailable):
		return "not_available"
	case errors.Is(err, ErrNotOwner):
		return "forbidden"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "error"
	}
}

// Borrow lends one copy of bookID to memberID.
func (s *Service) Borrow(ctx context.Context, memberID, bookID int64) (Borrowing, error) {
	today := s.Today()
	b, err := s.repo.Borrow(ctx, memberID, bookID, func(st State) (Borrowing, book.Book, error) {
		return s.rules.DecideBorrow(st, today)
	})
	metrics.RecordBorrowOperation("borrow", resultCode(err))
	if err != nil {
		if errors.Is(err, ErrInvariantViolation) || errors.Is(err, database.ErrStorage) {
			logging.Ctx(ctx).Error().Err(err).Int64("member_id", memberID).Int64("book_id", bookID).Msg("borrow failed")
		}
		return Borrowing{}, err
	}
	logging.Ctx(ctx).Info().Int64("borrowing_id", b.ID).Int64("member_id", memberID).Int64("book_id", bookID).
		Time("due_date", b.DueDate).Msg("book borrowed")
	return b, nil
}

// Return closes the loan id on behalf of actor and charges any late fine.
func (s *Service) Return(ctx context.Context, actor Actor, id int64) (Borrowing, error) {
	today := s.Today()
	b, err := s.repo.Return(ctx, id, func(b Borrowing, bk book.Book) (Borrowing, book.Book, error) {
		if !actor.owns(b) {
			return b, bk, ErrNotOwner
		}
		return s.rules.SettleReturn(b, bk, today)
	})
	metrics.RecordBorrowOperation("return", resultCode(err))
	if err != nil {
		if errors.Is(err, ErrInvariantViolation) || errors.Is(err, database.ErrStorage) {
			logging.Ctx(ctx).Error().Err(err).Int64("borrowing_id", id).Msg("return failed")
		}
		return Borrowing{}, err
	}
	logging.Ctx(ctx).Info().Int64("borrowing_id", b.ID).Str("fine", b.Fine.String()).Msg("book returned")
	return b, nil
}

// Get returns a loan visible to actor. Loans of other members read as not found.
func (s *Service) Get(ctx context.Context, actor Actor, id int64) (Borrowing, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Borrowing{}, err
	}
	if !actor.owns(b) {
		return Borrowing{}, ErrNotFound
	}
	return b, nil
}

func (s *Service) Current(ctx context.Context, memberID int64) ([]Borrowing, error) {
	return s.repo.ListByMember(ctx, memberID, FilterActive)
}

func (s *Service) History(ctx context.Context, memberID int64) ([]Borrowing, error) {
	return s.repo.ListByMember(ctx, memberID, FilterReturned)
}

func (s *Service) ByMember(ctx context.Context, memberID int64) ([]Borrowing, error) {
	return s.repo.ListByMember(ctx, memberID, FilterAll)
}

func (s *Service) ByBook(ctx context.Context, bookID int64) ([]Borrowing, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// Overdue lists active loans past their due date as of today.
func (s *Service) Overdue(ctx context.Context) ([]Borrowing, error) {
	return s.repo.ListOverdue(ctx, s.Today())
}

func (s *Service) All(ctx context.Context, limit, offset int) ([]Borrowing, int, error) {
	if limit <= 0 || limit > book.MaxPageSize {
		limit = book.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAll(ctx, limit, offset)
}

func (s *Service) TotalFines(ctx context.Context, memberID int64) (fine.Amount, error) {
	return s.repo.TotalFines(ctx, memberID)
}

// RecalculateFines brings the fine of every active overdue loan up to date.
// Running it twice on the same day changes nothing the second time.
func (s *Service) RecalculateFines(ctx context.Context) (int, error) {
	today := s.Today()
	updated, err := s.repo.RecalculateFines(ctx, today, func(b Borrowing) fine.Amount {
		return s.rules.Fines.Fine(b.DueDate, today)
	})
	metrics.RecordFineRecalculation(updated, err)
	if err != nil {
		return 0, err
	}
	logging.Ctx(ctx).Info().Int("updated", updated).Time("as_of", today).Msg("fines recalculated")
	return updated, nil
}
