package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
)

const (
	dialectPostgres = "postgres"
	tableBooks      = "books"
)

var bookColumns = []string{
	"id", "title", "author", "genre", "total_copies", "available_copies",
	"has_digital_copy", "created_at", "updated_at",
}

// SelectColumns is the column list ScanBook expects, qualified by alias when given.
func SelectColumns(alias string) string {
	if alias == "" {
		return strings.Join(bookColumns, ", ")
	}
	cols := make([]string, len(bookColumns))
	for i, c := range bookColumns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func selectExprs(alias string) []any {
	out := make([]any, len(bookColumns))
	for i, c := range bookColumns {
		if alias == "" {
			out[i] = goqu.C(c)
		} else {
			out[i] = goqu.I(alias + "." + c)
		}
	}
	return out
}

// ScanBook reads one row selected with SelectColumns.
func ScanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.TotalCopies, &b.AvailableCopies,
		&b.HasDigitalCopy, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
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

func filters(q Query) []exp.Expression {
	var where []exp.Expression
	if q.Keyword != "" {
		p := "%" + q.Keyword + "%"
		where = append(where, goqu.Or(
			goqu.C("title").ILike(p),
			goqu.C("author").ILike(p),
			goqu.C("genre").ILike(p),
		))
	}
	if q.Title != "" {
		where = append(where, goqu.C("title").ILike("%"+q.Title+"%"))
	}
	if q.Author != "" {
		where = append(where, goqu.C("author").ILike("%"+q.Author+"%"))
	}
	if q.Genre != "" {
		where = append(where, goqu.L("LOWER(genre) = LOWER(?)", q.Genre))
	}
	if len(q.Genres) > 0 {
		where = append(where, goqu.C("genre").In(q.Genres))
	}
	if q.AvailableOnly {
		where = append(where, goqu.C("available_copies").Gt(0))
	}
	if q.DigitalOnly {
		where = append(where, goqu.C("has_digital_copy").IsTrue())
	}
	if len(q.ExcludeIDs) > 0 {
		where = append(where, goqu.C("id").NotIn(q.ExcludeIDs))
	}
	return where
}

func ordering(sort string) []exp.OrderedExpression {
	switch sort {
	case SortAvailable:
		return []exp.OrderedExpression{goqu.C("available_copies").Desc(), goqu.C("title").Asc(), goqu.C("id").Asc()}
	case SortNewest:
		return []exp.OrderedExpression{goqu.C("created_at").Desc(), goqu.C("id").Desc()}
	case SortRandom:
		return []exp.OrderedExpression{goqu.L("random()").Asc()}
	default:
		return []exp.OrderedExpression{goqu.C("title").Asc(), goqu.C("id").Asc()}
	}
}

// BuildListQueries returns the count and page statements for q.
func BuildListQueries(q Query) (countSQL string, countArgs []any, dataSQL string, dataArgs []any, err error) {
	base := goqu.Dialect(dialectPostgres).From(tableBooks).Prepared(true).Where(filters(q)...)

	countSQL, countArgs, err = base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return "", nil, "", nil, err
	}

	page := base.Select(selectExprs("")...).Order(ordering(q.Sort)...).Limit(uint(q.Limit))
	if q.Offset > 0 {
		page = page.Offset(uint(q.Offset))
	}
	dataSQL, dataArgs, err = page.ToSQL()
	return countSQL, countArgs, dataSQL, dataArgs, err
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	countSQL, countArgs, dataSQL, dataArgs, err := BuildListQueries(q)
	if err != nil {
		return nil, 0, database.Wrap("build book query", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count books", err)
	}

	rows, err := r.db.Query(timeoutCtx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, database.Wrap("list books", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := ScanBook(rows)
		if err != nil {
			return nil, 0, database.Wrap("scan book", err)
		}
		out = append(out, b)
	}
	return out, total, database.Wrap("list books", rows.Err())
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	query := "SELECT " + SelectColumns("") + " FROM books WHERE id = $1"
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := ScanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, database.Wrap("get book", err)
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (title, author, genre, total_copies, available_copies, has_digital_copy)
	VALUES ($1, $2, $3, $4, $5, false)
	RETURNING id, has_digital_copy, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.Genre, b.TotalCopies, b.AvailableCopies).
		Scan(&b.ID, &b.HasDigitalCopy, &b.CreatedAt, &b.UpdatedAt)
	return database.Wrap("create book", err)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, fn func(Book) (Book, error)) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var updated Book
	err := database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		current, err := ScanBook(tx.QueryRow(timeoutCtx,
			"SELECT "+SelectColumns("")+" FROM books WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return database.Wrap("lock book", err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		const update = `
		UPDATE books
		SET title = $2, author = $3, genre = $4, total_copies = $5, available_copies = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
		`
		next.ID = current.ID
		err = tx.QueryRow(timeoutCtx, update, id, next.Title, next.Author, next.Genre, next.TotalCopies, next.AvailableCopies).
			Scan(&next.UpdatedAt)
		if err != nil {
			return database.Wrap("update book", err)
		}
		updated = next
		return nil
	})
	return updated, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT true FROM books WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return database.Wrap("lock book", err)
		}

		var active int
		if err := tx.QueryRow(timeoutCtx,
			`SELECT COUNT(*) FROM borrowings WHERE book_id = $1 AND return_date IS NULL`, id).Scan(&active); err != nil {
			return database.Wrap("count active borrowings", err)
		}
		if active > 0 {
			return ErrInUse
		}

		if _, err := tx.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id); err != nil {
			return database.Wrap("delete book", err)
		}
		return nil
	})
}

func (r *PostgresRepo) Genres(ctx context.Context) ([]string, error) {
	const query = `
	SELECT DISTINCT genre FROM books
	WHERE genre <> ''
	ORDER BY genre
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, database.Wrap("list genres", err)
	}
	genres, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return genres, database.Wrap("scan genres", err)
}

// BuildMostBorrowedQuery ranks books by borrow count; ties fall back to title then id.
func BuildMostBorrowedQuery(since time.Time, limit int) (string, []any, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(goqu.T(tableBooks).As("b")).
		Join(goqu.T("borrowings").As("br"), goqu.On(goqu.I("br.book_id").Eq(goqu.I("b.id")))).
		Select(selectExprs("b")...).
		GroupBy(goqu.I("b.id")).
		Order(goqu.COUNT(goqu.I("br.id")).Desc(), goqu.I("b.title").Asc(), goqu.I("b.id").Asc()).
		Limit(uint(limit)).
		Prepared(true)
	if !since.IsZero() {
		ds = ds.Where(goqu.I("br.borrow_date").Gte(since))
	}
	return ds.ToSQL()
}

func (r *PostgresRepo) MostBorrowed(ctx context.Context, since time.Time, limit int) ([]Book, error) {
	query, args, err := BuildMostBorrowedQuery(since, limit)
	if err != nil {
		return nil, database.Wrap("build most borrowed query", err)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, database.Wrap("most borrowed", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := ScanBook(rows)
		if err != nil {
			return nil, database.Wrap("scan book", err)
		}
		out = append(out, b)
	}
	return out, database.Wrap("most borrowed", rows.Err())
}
