package ingest

import (
	"context"
	"fmt"
	"strings"

	"libraryapi/internal/platform/openlibrary"
)

type SubjectSearcher interface {
	SearchBooks(ctx context.Context, subject string, limit int) (*openlibrary.SearchResponse, error)
}

// FromOpenLibrary turns a subject search into records filed under genre.
func FromOpenLibrary(ctx context.Context, client SubjectSearcher, subject, genre string, limit, copies int) ([]Record, error) {
	res, err := client.SearchBooks(ctx, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("search open library for %q: %w", subject, err)
	}
	if genre == "" {
		genre = subject
	}

	records := make([]Record, 0, len(res.Docs))
	for i, doc := range res.Docs {
		title := strings.TrimSpace(doc.Title)
		if title == "" {
			continue
		}
		var author string
		if len(doc.AuthorNames) > 0 {
			author = doc.AuthorNames[0]
		}
		records = append(records, Record{Line: i + 1, Title: title, Author: author, Genre: genre, Copies: copies})
	}
	return records, nil
}
