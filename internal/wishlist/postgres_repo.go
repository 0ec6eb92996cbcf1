package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/book"
	"libraryapi/internal/platform/database"
)

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

func (r *PostgresRepo) Add(ctx context.Context, memberID, bookID int64) (Entry, error) {
	const insertSQL = `
		INSERT INTO wishlists (member_id, book_id)
		SELECT $1, b.id FROM books b WHERE b.id = $2
		ON CONFLICT (member_id, book_id) DO NOTHING
		RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	e := Entry{MemberID: memberID}
	err := r.db.QueryRow(timeoutCtx, insertSQL, memberID, bookID).Scan(&e.ID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Nothing inserted: either the book is unknown or the pair already exists.
		var exists bool
		if err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists); err != nil {
			return Entry{}, database.Wrap("check book", err)
		}
		if !exists {
			return Entry{}, book.ErrNotFound
		}
		return Entry{}, ErrDuplicateEntry
	}
	if err != nil {
		return Entry{}, database.Wrap("add wishlist entry", err)
	}

	e.Book, err = book.ScanBook(r.db.QueryRow(timeoutCtx, "SELECT "+book.SelectColumns("")+" FROM books WHERE id = $1", bookID))
	if err != nil {
		return Entry{}, database.Wrap("load wishlist book", err)
	}
	return e, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, memberID, bookID int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM wishlists WHERE member_id = $1 AND book_id = $2`, memberID, bookID)
	if err != nil {
		return database.Wrap("remove wishlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, memberID int64) ([]Entry, error) {
	dataSQL := `
		SELECT w.id, w.member_id, w.created_at, ` + book.SelectColumns("b") + `
		FROM wishlists w
		JOIN books b ON b.id = w.book_id
		WHERE w.member_id = $1
		ORDER BY w.created_at DESC, w.id DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, dataSQL, memberID)
	if err != nil {
		return nil, database.Wrap("list wishlist", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		b := &e.Book
		if err := rows.Scan(
			&e.ID, &e.MemberID, &e.CreatedAt,
			&b.ID, &b.Title, &b.Author, &b.Genre, &b.TotalCopies, &b.AvailableCopies,
			&b.HasDigitalCopy, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, database.Wrap("scan wishlist entry", err)
		}
		entries = append(entries, e)
	}
	return entries, database.Wrap("list wishlist", rows.Err())
}
