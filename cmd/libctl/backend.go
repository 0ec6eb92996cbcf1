package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/book"
	"libraryapi/internal/borrowing"
	"libraryapi/internal/config"
	"libraryapi/internal/fine"
	"libraryapi/internal/ingest"
	"libraryapi/internal/jobs"
	"libraryapi/internal/logging"
	"libraryapi/internal/platform/database"
	"libraryapi/internal/platform/openlibrary"
	"libraryapi/internal/user"
)

const openLibraryUserAgent = "libctl/1.0 (library maintenance)"

type AdminCreator interface {
	CreateAdmin(ctx context.Context, username, password string) (user.User, error)
}

type Importer interface {
	Import(ctx context.Context, source string, records []ingest.Record, rejected []ingest.RowError) (ingest.Run, error)
}

// backend is what the commands operate on. Close releases it.
type backend interface {
	Fines() jobs.FineRecalculator
	Admins() AdminCreator
	Importer() Importer
	Searcher() ingest.SubjectSearcher
	Close()
}

type openBackend func(ctx context.Context) (backend, error)

type postgresBackend struct {
	pool     *pgxpool.Pool
	fines    *borrowing.Service
	admins   *user.Service
	importer *ingest.Service
	searcher *openlibrary.Client
}

func openPostgres(ctx context.Context) (backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	pool, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Database.QueryTimeout
	rules := borrowing.Rules{
		LoanDays:  cfg.Lending.LoanDays,
		MaxActive: cfg.Lending.MaxActiveLoans,
		Fines:     fine.Policy{DailyRate: fine.Amount(cfg.Lending.DailyFineCents)},
	}
	books := book.NewService(book.NewPostgresRepo(pool, timeout))

	return &postgresBackend{
		pool:     pool,
		fines:    borrowing.NewService(borrowing.NewPostgresRepo(pool, timeout), rules, time.Now),
		admins:   user.NewService(user.NewPostgresRepo(pool, timeout)),
		importer: ingest.NewService(books, ingest.NewPostgresRepo(pool, timeout)),
		searcher: openlibrary.NewClient(openLibraryUserAgent, 1, 3),
	}, nil
}

func (b *postgresBackend) Fines() jobs.FineRecalculator      { return b.fines }
func (b *postgresBackend) Admins() AdminCreator              { return b.admins }
func (b *postgresBackend) Importer() Importer                { return b.importer }
func (b *postgresBackend) Searcher() ingest.SubjectSearcher { return b.searcher }
func (b *postgresBackend) Close()                            { b.pool.Close() }
