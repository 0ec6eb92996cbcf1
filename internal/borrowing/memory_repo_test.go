package borrowing

import (
	"context"
	"sort"
	"sync"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/fine"
)

// memoryRepo is a Repository holding everything behind one mutex, which gives
// Borrow and Return the same serialization the row locks give in Postgres.
type memoryRepo struct {
	mu         sync.Mutex
	books      map[int64]book.Book
	members    map[int64]bool
	borrowings map[int64]Borrowing
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		books:      map[int64]book.Book{},
		members:    map[int64]bool{},
		borrowings: map[int64]Borrowing{},
	}
}

func (m *memoryRepo) addBook(id int64, copies int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[id] = book.Book{ID: id, Title: "Book", TotalCopies: copies, AvailableCopies: copies}
}

func (m *memoryRepo) addMember(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[id] = true
}

func (m *memoryRepo) book(id int64) book.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id]
}

func (m *memoryRepo) Borrow(_ context.Context, memberID, bookID int64, decide func(State) (Borrowing, book.Book, error)) (Borrowing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.members[memberID] {
		return Borrowing{}, ErrMemberNotFound
	}
	bk, ok := m.books[bookID]
	if !ok {
		return Borrowing{}, book.ErrNotFound
	}
	st := State{MemberID: memberID, Book: bk}
	for _, b := range m.borrowings {
		if b.MemberID == memberID && b.IsActive() {
			st.ActiveCount++
			if b.BookID == bookID {
				st.HoldsBook = true
			}
		}
	}

	next, nextBook, err := decide(st)
	if err != nil {
		return Borrowing{}, err
	}
	m.nextID++
	next.ID = m.nextID
	m.borrowings[next.ID] = next
	m.books[bookID] = nextBook
	return next, nil
}

func (m *memoryRepo) Return(_ context.Context, id int64, settle func(Borrowing, book.Book) (Borrowing, book.Book, error)) (Borrowing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.borrowings[id]
	if !ok {
		return Borrowing{}, ErrNotFound
	}
	next, nextBook, err := settle(b, m.books[b.BookID])
	if err != nil {
		return Borrowing{}, err
	}
	m.borrowings[id] = next
	m.books[b.BookID] = nextBook
	return next, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (Borrowing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.borrowings[id]
	if !ok {
		return Borrowing{}, ErrNotFound
	}
	return b, nil
}

func (m *memoryRepo) where(keep func(Borrowing) bool) []Borrowing {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Borrowing{}
	for _, b := range m.borrowings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryRepo) ListByMember(_ context.Context, memberID int64, filter Filter) ([]Borrowing, error) {
	return m.where(func(b Borrowing) bool {
		if b.MemberID != memberID {
			return false
		}
		switch filter {
		case FilterActive:
			return b.IsActive()
		case FilterReturned:
			return !b.IsActive()
		}
		return true
	}), nil
}

func (m *memoryRepo) ListByBook(_ context.Context, bookID int64) ([]Borrowing, error) {
	return m.where(func(b Borrowing) bool { return b.BookID == bookID }), nil
}

func (m *memoryRepo) ListOverdue(_ context.Context, asOf time.Time) ([]Borrowing, error) {
	return m.where(func(b Borrowing) bool { return b.IsOverdue(asOf) }), nil
}

func (m *memoryRepo) ListAll(_ context.Context, limit, offset int) ([]Borrowing, int, error) {
	all := m.where(func(Borrowing) bool { return true })
	if offset >= len(all) {
		return []Borrowing{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (m *memoryRepo) RecalculateFines(_ context.Context, asOf time.Time, compute func(Borrowing) fine.Amount) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	updated := 0
	for id, b := range m.borrowings {
		if !b.IsOverdue(asOf) {
			continue
		}
		if f := compute(b); f != b.Fine {
			b.Fine = f
			m.borrowings[id] = b
			updated++
		}
	}
	return updated, nil
}

func (m *memoryRepo) TotalFines(_ context.Context, memberID int64) (fine.Amount, error) {
	var total fine.Amount
	for _, b := range m.where(func(b Borrowing) bool { return b.MemberID == memberID }) {
		total += b.Fine
	}
	return total, nil
}
