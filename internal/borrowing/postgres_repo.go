package borrowing

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/book"
	"libraryapi/internal/fine"
	"libraryapi/internal/platform/database"
)

const selectBorrowing = `
SELECT br.id, br.member_id, br.book_id, b.title, b.author,
       br.borrow_date, br.due_date, br.return_date, br.fine_cents
FROM borrowings br
JOIN books b ON b.id = br.book_id
`

func scanBorrowing(row pgx.Row) (Borrowing, error) {
	var b Borrowing
	err := row.Scan(&b.ID, &b.MemberID, &b.BookID, &b.BookTitle, &b.BookAuthor,
		&b.BorrowDate, &b.DueDate, &b.ReturnDate, (*int64)(&b.Fine))
	return b, err
}

func collect(rows pgx.Rows) ([]Borrowing, error) {
	defer rows.Close()
	out := []Borrowing{}
	for rows.Next() {
		b, err := scanBorrowing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func lockBook(ctx context.Context, tx pgx.Tx, id int64) (book.Book, error) {
	bk, err := book.ScanBook(tx.QueryRow(ctx,
		"SELECT "+book.SelectColumns("")+" FROM books WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, database.Wrap("lock book", err)
	}
	return bk, nil
}

func storeCopies(ctx context.Context, tx pgx.Tx, bk book.Book) error {
	_, err := tx.Exec(ctx,
		`UPDATE books SET available_copies = $2, updated_at = now() WHERE id = $1`, bk.ID, bk.AvailableCopies)
	return database.Wrap("update available copies", err)
}

// Borrow locks the member row before the book row. Return never locks a member,
// so the two cannot wait on each other.
func (r *PostgresRepo) Borrow(ctx context.Context, memberID, bookID int64, decide func(State) (Borrowing, book.Book, error)) (Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var created Borrowing
	err := database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT true FROM members WHERE id = $1 FOR UPDATE`, memberID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrMemberNotFound
			}
			return database.Wrap("lock member", err)
		}

		bk, err := lockBook(timeoutCtx, tx, bookID)
		if err != nil {
			return err
		}

		st := State{MemberID: memberID, Book: bk}
		var sameBook int
		err = tx.QueryRow(timeoutCtx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE book_id = $2)
		FROM borrowings
		WHERE member_id = $1 AND return_date IS NULL
		`, memberID, bookID).Scan(&st.ActiveCount, &sameBook)
		if err != nil {
			return database.Wrap("count active borrowings", err)
		}
		st.HoldsBook = sameBook > 0

		next, nextBook, err := decide(st)
		if err != nil {
			return err
		}
		if err := storeCopies(timeoutCtx, tx, nextBook); err != nil {
			return err
		}

		err = tx.QueryRow(timeoutCtx, `
		INSERT INTO borrowings (member_id, book_id, borrow_date, due_date, fine_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
		`, next.MemberID, next.BookID, next.BorrowDate, next.DueDate, int64(next.Fine)).Scan(&next.ID)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyBorrowed
			}
			return database.Wrap("insert borrowing", err)
		}
		created = next
		return nil
	})
	return created, err
}

func (r *PostgresRepo) Return(ctx context.Context, id int64, settle func(Borrowing, book.Book) (Borrowing, book.Book, error)) (Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var returned Borrowing
	err := database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		current, err := scanBorrowing(tx.QueryRow(timeoutCtx, selectBorrowing+` WHERE br.id = $1 FOR UPDATE OF br`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return database.Wrap("lock borrowing", err)
		}

		bk, err := lockBook(timeoutCtx, tx, current.BookID)
		if err != nil {
			return err
		}

		next, nextBook, err := settle(current, bk)
		if err != nil {
			return err
		}
		if err := storeCopies(timeoutCtx, tx, nextBook); err != nil {
			return err
		}

		_, err = tx.Exec(timeoutCtx, `UPDATE borrowings SET return_date = $2, fine_cents = $3 WHERE id = $1`,
			id, next.ReturnDate, int64(next.Fine))
		if err != nil {
			return database.Wrap("update borrowing", err)
		}
		returned = next
		return nil
	})
	return returned, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBorrowing(r.db.QueryRow(timeoutCtx, selectBorrowing+` WHERE br.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Borrowing{}, ErrNotFound
		}
		return Borrowing{}, database.Wrap("get borrowing", err)
	}
	return b, nil
}

// BuildMemberQuery selects a member's loans in the given state, newest first.
func BuildMemberQuery(memberID int64, filter Filter) (string, []any, error) {
	where := []exp.Expression{goqu.I("br.member_id").Eq(memberID)}
	switch filter {
	case FilterActive:
		where = append(where, goqu.I("br.return_date").IsNull())
	case FilterReturned:
		where = append(where, goqu.I("br.return_date").IsNotNull())
	}
	return goqu.Dialect("postgres").
		From(goqu.T("borrowings").As("br")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id")))).
		Select("br.id", "br.member_id", "br.book_id", "b.title", "b.author",
			"br.borrow_date", "br.due_date", "br.return_date", "br.fine_cents").
		Where(where...).
		Order(goqu.I("br.borrow_date").Desc(), goqu.I("br.id").Desc()).
		Prepared(true).
		ToSQL()
}

func (r *PostgresRepo) ListByMember(ctx context.Context, memberID int64, filter Filter) ([]Borrowing, error) {
	query, args, err := BuildMemberQuery(memberID, filter)
	if err != nil {
		return nil, database.Wrap("build member borrowings query", err)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, database.Wrap("list member borrowings", err)
	}
	out, err := collect(rows)
	return out, database.Wrap("list member borrowings", err)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64) ([]Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, selectBorrowing+` WHERE br.book_id = $1 ORDER BY br.borrow_date DESC, br.id DESC`, bookID)
	if err != nil {
		return nil, database.Wrap("list book borrowings", err)
	}
	out, err := collect(rows)
	return out, database.Wrap("list book borrowings", err)
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]Borrowing, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		selectBorrowing+` WHERE br.return_date IS NULL AND br.due_date < $1 ORDER BY br.due_date, br.id`, asOf)
	if err != nil {
		return nil, database.Wrap("list overdue borrowings", err)
	}
	out, err := collect(rows)
	return out, database.Wrap("list overdue borrowings", err)
}

func (r *PostgresRepo) ListAll(ctx context.Context, limit, offset int) ([]Borrowing, int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM borrowings`).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count borrowings", err)
	}
	rows, err := r.db.Query(timeoutCtx,
		selectBorrowing+` ORDER BY br.borrow_date DESC, br.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, database.Wrap("list borrowings", err)
	}
	out, err := collect(rows)
	return out, total, database.Wrap("list borrowings", err)
}

func (r *PostgresRepo) RecalculateFines(ctx context.Context, asOf time.Time, compute func(Borrowing) fine.Amount) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var updated int
	err := database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(timeoutCtx,
			selectBorrowing+` WHERE br.return_date IS NULL AND br.due_date < $1 ORDER BY br.id FOR UPDATE OF br`, asOf)
		if err != nil {
			return database.Wrap("lock overdue borrowings", err)
		}
		overdue, err := collect(rows)
		if err != nil {
			return database.Wrap("lock overdue borrowings", err)
		}

		batch := &pgx.Batch{}
		for _, b := range overdue {
			if f := compute(b); f != b.Fine {
				batch.Queue(`UPDATE borrowings SET fine_cents = $2 WHERE id = $1`, b.ID, int64(f))
			}
		}
		if batch.Len() == 0 {
			return nil
		}

		results := tx.SendBatch(timeoutCtx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return database.Wrap("update fine", err)
			}
		}
		if err := results.Close(); err != nil {
			return database.Wrap("update fines", err)
		}
		updated = batch.Len()
		return nil
	})
	return updated, err
}

func (r *PostgresRepo) TotalFines(ctx context.Context, memberID int64) (fine.Amount, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var total int64
	err := r.db.QueryRow(timeoutCtx,
		`SELECT COALESCE(SUM(fine_cents), 0) FROM borrowings WHERE member_id = $1`, memberID).Scan(&total)
	if err != nil {
		return 0, database.Wrap("sum fines", err)
	}
	return fine.Amount(total), nil
}
