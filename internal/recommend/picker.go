package recommend

import "libraryapi/internal/book"

// picker accumulates distinct books up to MaxResults, skipping excluded ids.
type picker struct {
	books []book.Book
	seen  map[int64]bool
}

func newPicker(exclude ...int64) *picker {
	p := &picker{books: []book.Book{}, seen: make(map[int64]bool, MaxResults+len(exclude))}
	for _, id := range exclude {
		p.seen[id] = true
	}
	return p
}

func (p *picker) full() bool { return len(p.books) >= MaxResults }

func (p *picker) add(books ...book.Book) {
	for _, b := range books {
		if p.full() {
			return
		}
		if p.seen[b.ID] {
			continue
		}
		p.seen[b.ID] = true
		p.books = append(p.books, b)
	}
}

func (p *picker) ids() []int64 {
	ids := make([]int64, 0, len(p.seen))
	for id := range p.seen {
		ids = append(ids, id)
	}
	return ids
}
