package digital

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"libraryapi/internal/logging"
	"libraryapi/internal/metrics"
)

// Upload is one file submitted for a book. Size is -1 when the caller does not know it.
type Upload struct {
	BookID       int64
	Format       string
	OriginalName string
	Size         int64
	Content      io.Reader
}

type Service struct {
	repo  Repository
	blobs BlobStore
	books BookFinder
}

func NewService(repo Repository, blobs BlobStore, books BookFinder) *Service {
	return &Service{repo: repo, blobs: blobs, books: books}
}

func uploadResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	default:
		return "error"
	}
}

// Upload stores the file under a fresh opaque name and registers it.
// Validation runs before anything is written: format, then size, then the book.
func (s *Service) Upload(ctx context.Context, in Upload) (Asset, error) {
	a, err := s.upload(ctx, in)
	label := string(a.Format)
	if label == "" {
		label = "unknown"
	}
	metrics.RecordDigitalUpload(label, uploadResult(err))
	return a, err
}

func (s *Service) upload(ctx context.Context, in Upload) (Asset, error) {
	format, err := ParseFormat(in.Format)
	if err != nil {
		return Asset{}, err
	}
	a := Asset{BookID: in.BookID, Format: format}
	if in.Size == 0 || in.Content == nil {
		return a, ErrEmptyFile
	}
	if _, err := s.books.GetByID(ctx, in.BookID); err != nil {
		return a, err
	}

	a.FileName = uuid.NewString() + format.Extension()
	a.OriginalName = filepath.Base(in.OriginalName)
	a.URL = FilesPath + a.FileName

	n, err := s.blobs.Put(a.FileName, in.Content)
	if err != nil {
		return a, err
	}
	if n == 0 {
		s.discard(ctx, a.FileName)
		return a, ErrEmptyFile
	}
	a.SizeBytes = n

	if err := s.repo.Create(ctx, &a); err != nil {
		s.discard(ctx, a.FileName)
		return a, err
	}
	logging.Ctx(ctx).Info().Int64("asset_id", a.ID).Int64("book_id", a.BookID).
		Str("format", string(a.Format)).Int64("bytes", n).Msg("digital file uploaded")
	return a, nil
}

// discard removes a blob that never got a record. Failures are only logged.
func (s *Service) discard(ctx context.Context, name string) {
	if err := s.blobs.Delete(name); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("file", name).Msg("delete orphaned blob failed")
	}
}

// UpdateFormat retypes an asset. The stored file is renamed to the new extension
// first and moved back if the record cannot be updated.
func (s *Service) UpdateFormat(ctx context.Context, id int64, format string) (Asset, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Asset{}, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil || a.Format == f {
		return a, err
	}

	oldName := a.FileName
	a.Format = f
	a.FileName = withExtension(oldName, f)
	a.URL = FilesPath + a.FileName
	if a.OriginalName != "" {
		a.OriginalName = withExtension(a.OriginalName, f)
	}

	if err := s.blobs.Rename(oldName, a.FileName); err != nil {
		return Asset{}, err
	}
	updated, err := s.repo.UpdateFormat(ctx, a)
	if err != nil {
		if rerr := s.blobs.Rename(a.FileName, oldName); rerr != nil {
			logging.Ctx(ctx).Warn().Err(rerr).Int64("asset_id", id).Str("file", a.FileName).Msg("restore blob name failed")
		}
		return Asset{}, err
	}
	return updated, nil
}

func withExtension(name string, f Format) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + f.Extension()
}

// Delete removes the record first and then its file. A file that cannot be
// removed is logged and left behind.
func (s *Service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(a.FileName); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("asset_id", id).Str("file", a.FileName).Msg("delete blob failed")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (Asset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx, Filter{})
}

func (s *Service) ByBook(ctx context.Context, bookID int64) ([]Asset, error) {
	return s.repo.List(ctx, Filter{BookID: bookID})
}

func (s *Service) ByBookAndFormat(ctx context.Context, bookID int64, format string) ([]Asset, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{BookID: bookID, Format: f})
}

func (s *Service) ByFormat(ctx context.Context, format string) ([]Asset, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{Format: f})
}

// OpenFile returns a registered file by its stored name. The caller closes it.
func (s *Service) OpenFile(ctx context.Context, name string) (Asset, *os.File, error) {
	a, err := s.repo.GetByFileName(ctx, name)
	if err != nil {
		return Asset{}, nil, err
	}
	return s.open(a)
}

// OpenAsset returns the file of asset id. The caller closes it.
func (s *Service) OpenAsset(ctx context.Context, id int64) (Asset, *os.File, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Asset{}, nil, err
	}
	return s.open(a)
}

func (s *Service) open(a Asset) (Asset, *os.File, error) {
	f, err := s.blobs.Open(a.FileName)
	if err != nil {
		return a, nil, err
	}
	return a, f, nil
}
