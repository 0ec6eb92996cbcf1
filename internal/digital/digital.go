// Package digital registers uploaded e-book files against catalog books.
package digital

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("digital asset not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file is empty")
)

// FilesPath prefixes the public URL of every stored file.
const FilesPath = "/api/digital-books/files/"

type Format string

const (
	FormatPDF  Format = "PDF"
	FormatEPUB Format = "EPUB"
	FormatMOBI Format = "MOBI"
)

var formats = map[Format]struct {
	ext         string
	contentType string
}{
	FormatPDF:  {".pdf", "application/pdf"},
	FormatEPUB: {".epub", "application/epub+zip"},
	FormatMOBI: {".mobi", "application/x-mobipocket-ebook"},
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := formats[f]; !ok {
		return "", ErrUnsupportedFormat
	}
	return f, nil
}

func (f Format) Extension() string { return formats[f].ext }

// ContentType falls back to application/octet-stream for unknown formats.
func (f Format) ContentType() string {
	if ct := formats[f].contentType; ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Asset is one stored file of a book.
type Asset struct {
	ID           int64     `json:"id"`
	BookID       int64     `json:"bookId"`
	Format       Format    `json:"fileFormat"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"fileUrl"`
	SizeBytes    int64     `json:"sizeBytes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	BookID int64
	Format Format
}
