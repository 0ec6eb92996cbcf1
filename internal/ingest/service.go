package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/logging"
)

// Catalog is the part of book.Service an import needs.
type Catalog interface {
	List(ctx context.Context, q book.Query) ([]book.Book, int, error)
	Create(ctx context.Context, in book.Input) (book.Book, error)
}

type Service struct {
	catalog Catalog
	runs    Repository
	now     func() time.Time
}

func NewService(catalog Catalog, runs Repository) *Service {
	return &Service{catalog: catalog, runs: runs, now: time.Now}
}

func key(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.ToLower(strings.TrimSpace(author))
}

// exists reports whether the catalog already holds a book with this title and author.
func (s *Service) exists(ctx context.Context, r Record) (bool, error) {
	books, _, err := s.catalog.List(ctx, book.Query{Title: r.Title, Author: r.Author, Limit: book.MaxPageSize})
	if err != nil {
		return false, err
	}
	want := key(r.Title, r.Author)
	for _, b := range books {
		if key(b.Title, b.Author) == want {
			return true, nil
		}
	}
	return false, nil
}

// Import creates a book for every record not already in the catalog.
// Invalid rows are reported in the run; a storage failure stops the import.
func (s *Service) Import(ctx context.Context, source string, records []Record, rejected []RowError) (run Run, err error) {
	run = Run{
		Source:    source,
		Status:    StatusRunning,
		StartedAt: s.now(),
		Read:      len(records) + len(rejected),
		Failed:    append([]RowError{}, rejected...),
	}
	id, err := s.runs.CreateRun(ctx, &run)
	if err != nil {
		return run, err
	}
	run.ID = id

	defer func() {
		finished := s.now()
		run.FinishedAt = &finished
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}
		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		if updateErr := s.runs.UpdateRun(ctx, &run); updateErr != nil {
			logging.Ctx(ctx).Error().Err(updateErr).Str("run_id", run.ID).Msg("failed to record import run")
		}
	}()

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		k := key(r.Title, r.Author)
		if seen[k] {
			run.Skipped++
			continue
		}
		seen[k] = true

		found, err := s.exists(ctx, r)
		if err != nil {
			return run, err
		}
		if found {
			run.Skipped++
			continue
		}

		_, err = s.catalog.Create(ctx, book.Input{Title: r.Title, Author: r.Author, Genre: r.Genre, TotalCopies: r.Copies})
		if errors.Is(err, book.ErrInvalidCopies) {
			run.Failed = append(run.Failed, RowError{Line: r.Line, Message: "copies must be at least 1"})
			continue
		}
		if err != nil {
			return run, err
		}
		run.Created++
	}

	logging.Ctx(ctx).Info().
		Str("source", source).
		Int("created", run.Created).
		Int("skipped", run.Skipped).
		Int("failed", len(run.Failed)).
		Msg("book import finished")
	return run, nil
}
