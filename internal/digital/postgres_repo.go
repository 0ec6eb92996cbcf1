package digital

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
	"libraryapi/internal/platform/database"
)

const assetColumns = `id, book_id, format, file_name, original_name, file_url, size_bytes, created_at`

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.BookID, &a.Format, &a.FileName, &a.OriginalName, &a.URL, &a.SizeBytes, &a.CreatedAt)
	return a, err
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

func (r *PostgresRepo) Create(ctx context.Context, a *Asset) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT true FROM books WHERE id = $1 FOR UPDATE`, a.BookID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return book.ErrNotFound
			}
			return database.Wrap("lock book", err)
		}

		const insert = `
		INSERT INTO digital_assets (book_id, format, file_name, original_name, file_url, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
		`
		err := tx.QueryRow(timeoutCtx, insert, a.BookID, a.Format, a.FileName, a.OriginalName, a.URL, a.SizeBytes).
			Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return database.Wrap("insert digital asset", err)
		}

		_, err = tx.Exec(timeoutCtx, `UPDATE books SET has_digital_copy = true, updated_at = now() WHERE id = $1`, a.BookID)
		return database.Wrap("flag digital copy", err)
	})
}

func (r *PostgresRepo) get(ctx context.Context, where string, arg any) (Asset, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	a, err := scanAsset(r.db.QueryRow(timeoutCtx, "SELECT "+assetColumns+" FROM digital_assets WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, database.Wrap("get digital asset", err)
	}
	return a, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Asset, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *PostgresRepo) GetByFileName(ctx context.Context, name string) (Asset, error) {
	return r.get(ctx, "file_name = $1", name)
}

func (r *PostgresRepo) UpdateFormat(ctx context.Context, in Asset) (Asset, error) {
	const query = `
	UPDATE digital_assets
	SET format = $2, file_name = $3, original_name = $4, file_url = $5
	WHERE id = $1
	RETURNING ` + assetColumns
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	a, err := scanAsset(r.db.QueryRow(timeoutCtx, query, in.ID, in.Format, in.FileName, in.OriginalName, in.URL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, database.Wrap("update digital asset", err)
	}
	return a, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (Asset, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted Asset
	err := database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		a, err := scanAsset(tx.QueryRow(timeoutCtx,
			`SELECT `+assetColumns+` FROM digital_assets WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return database.Wrap("lock digital asset", err)
		}
		var exists bool
		if err := tx.QueryRow(timeoutCtx, `SELECT true FROM books WHERE id = $1 FOR UPDATE`, a.BookID).Scan(&exists); err != nil {
			return database.Wrap("lock book", err)
		}

		if _, err := tx.Exec(timeoutCtx, `DELETE FROM digital_assets WHERE id = $1`, id); err != nil {
			return database.Wrap("delete digital asset", err)
		}
		_, err = tx.Exec(timeoutCtx, `
		UPDATE books SET has_digital_copy = false, updated_at = now()
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM digital_assets WHERE book_id = $1)
		`, a.BookID)
		if err != nil {
			return database.Wrap("clear digital copy", err)
		}
		deleted = a
		return nil
	})
	return deleted, err
}

// BuildListQuery selects assets matching f, oldest first.
func BuildListQuery(f Filter) (string, []any, error) {
	var where []exp.Expression
	if f.BookID != 0 {
		where = append(where, goqu.C("book_id").Eq(f.BookID))
	}
	if f.Format != "" {
		where = append(where, goqu.C("format").Eq(string(f.Format)))
	}
	return goqu.Dialect("postgres").
		From("digital_assets").
		Select(goqu.L(assetColumns)).
		Where(where...).
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Asset, error) {
	query, args, err := BuildListQuery(f)
	if err != nil {
		return nil, database.Wrap("build digital asset query", err)
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, database.Wrap("list digital assets", err)
	}
	defer rows.Close()

	out := []Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, database.Wrap("scan digital asset", err)
		}
		out = append(out, a)
	}
	return out, database.Wrap("list digital assets", rows.Err())
}
