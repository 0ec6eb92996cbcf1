package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCSV reads title,author,genre[,copies] rows. A leading header row is
// skipped. Rows without a usable title or copy count are reported, not returned.
func ParseCSV(r io.Reader, defaultCopies int) ([]Record, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		records []Record
		bad     []RowError
	)
	for first := true; ; first = false {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if first && strings.EqualFold(strings.TrimSpace(fields[0]), "title") {
			continue
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		rec := Record{Line: line, Copies: defaultCopies}
		rec.Title = strings.TrimSpace(fields[0])
		if len(fields) > 1 {
			rec.Author = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			rec.Genre = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(fields[3]))
			if err != nil {
				bad = append(bad, RowError{Line: line, Message: "copies must be a whole number"})
				continue
			}
			rec.Copies = n
		}
		if rec.Title == "" {
			bad = append(bad, RowError{Line: line, Message: "title is required"})
			continue
		}
		records = append(records, rec)
	}
	return records, bad, nil
}
