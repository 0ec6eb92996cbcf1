package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) Stats(ctx context.Context, today time.Time) (Stats, error) {
	const query = `
	SELECT
		(SELECT COUNT(*) FROM books),
		(SELECT COUNT(*) FROM members),
		(SELECT COUNT(*) FROM borrowings WHERE return_date IS NULL),
		(SELECT COUNT(*) FROM borrowings WHERE return_date IS NULL AND due_date < $1)
	`
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var s Stats
	err := r.db.QueryRow(timeoutCtx, query, today).
		Scan(&s.TotalBooks, &s.TotalMembers, &s.ActiveBorrowings, &s.OverdueBorrowings)
	return s, database.Wrap("dashboard stats", err)
}
