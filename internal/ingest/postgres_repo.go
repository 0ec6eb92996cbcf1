package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
)

type Repository interface {
	CreateRun(ctx context.Context, run *Run) (string, error)
	UpdateRun(ctx context.Context, run *Run) error
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (string, error) {
	const sql = `
		INSERT INTO import_runs (source, status, started_at, rows_read)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var id string
	err := r.db.QueryRow(timeoutCtx, sql, run.Source, run.Status, run.StartedAt, run.Read).Scan(&id)
	return id, database.Wrap("create import run", err)
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE import_runs SET
			finished_at = $1,
			status = $2,
			books_created = $3,
			rows_skipped = $4,
			rows_failed = $5,
			error = $6
		WHERE id = $7`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, run.FinishedAt, run.Status, run.Created, run.Skipped, len(run.Failed), run.Error, run.ID)
	return database.Wrap("update import run", err)
}
