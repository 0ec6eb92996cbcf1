package recommend

import (
	"context"
	"sort"
	"strings"
	"time"

	"libraryapi/internal/book"
)

// fakeCatalog evaluates book.Query filters over an in-memory shelf.
type fakeCatalog struct {
	books   []book.Book
	borrows map[int64]int
	recent  map[int64]int
	queries []book.Query
}

func (c *fakeCatalog) add(title, author, genre string, available int) book.Book {
	b := book.Book{
		ID:              int64(len(c.books) + 1),
		Title:           title,
		Author:          author,
		Genre:           genre,
		TotalCopies:     3,
		AvailableCopies: available,
	}
	c.books = append(c.books, b)
	return b
}

func contains(ids []int64, id int64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (c *fakeCatalog) List(_ context.Context, q book.Query) ([]book.Book, int, error) {
	c.queries = append(c.queries, q)
	var out []book.Book
	for _, b := range c.books {
		switch {
		case len(q.Genres) > 0 && !containsString(q.Genres, b.Genre):
		case q.Genre != "" && !strings.EqualFold(q.Genre, b.Genre):
		case q.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(q.Author)):
		case contains(q.ExcludeIDs, b.ID):
		case q.AvailableOnly && !b.IsAvailable():
		default:
			out = append(out, b)
		}
	}
	switch q.Sort {
	case book.SortAvailable:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AvailableCopies > out[j].AvailableCopies })
	case book.SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	case book.SortRandom:
		// reversed shelf order, so a pool cut from the front differs from title order
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	}
	total := len(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, total, nil
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (c *fakeCatalog) GetByID(_ context.Context, id int64) (book.Book, error) {
	for _, b := range c.books {
		if b.ID == id {
			return b, nil
		}
	}
	return book.Book{}, book.ErrNotFound
}

func (c *fakeCatalog) MostBorrowed(_ context.Context, since time.Time, limit int) ([]book.Book, error) {
	counts := c.borrows
	if !since.IsZero() {
		counts = c.recent
	}
	var out []book.Book
	for _, b := range c.books {
		if counts[b.ID] > 0 {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i].ID] > counts[out[j].ID] })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeHistory map[int64]History

func (h fakeHistory) MemberHistory(_ context.Context, memberID int64) (History, error) {
	return h[memberID], nil
}

func noShuffle(int, func(i, j int)) {}
