// Package ingest bulk-loads catalog entries from CSV files or Open Library subject searches.
package ingest

import (
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Record is one book to import. Line is the 1-based position in the source.
type Record struct {
	Line   int
	Title  string
	Author string
	Genre  string
	Copies int
}

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Run summarizes one import.
type Run struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Read       int        `json:"read"`
	Created    int        `json:"created"`
	Skipped    int        `json:"skipped"`
	Failed     []RowError `json:"failed"`
	Error      string     `json:"error,omitempty"`
}
