// Package recommend suggests books from catalog data and borrowing history.
// The heuristics only promise that results are capped at MaxResults, never
// repeat a book and never include the book they were computed from.
package recommend

import (
	"sort"
	"strings"
)

const (
	MaxResults = 10
	// padThreshold is the result count below which personalized and similar lists are padded.
	padThreshold = 5
)

var moodGenres = map[string][]string{
	"uplifting":   {"Self-Help", "Comedy", "Romance", "Adventure"},
	"relaxing":    {"Poetry", "Nature", "Travel", "Art"},
	"exciting":    {"Thriller", "Action", "Adventure", "Mystery"},
	"thoughtful":  {"Philosophy", "Biography", "History", "Science"},
	"escapist":    {"Fantasy", "Science Fiction", "Romance", "Adventure"},
	"educational": {"Science", "History", "Biography", "Technology"},
	"emotional":   {"Drama", "Romance", "Biography", "Literary Fiction"},
}

var fallbackGenres = []string{"Fiction", "Non-Fiction"}

// GenresForMood maps a mood keyword to genres. Unknown moods get general fiction.
func GenresForMood(mood string) []string {
	if genres, ok := moodGenres[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return genres
	}
	return fallbackGenres
}

// Moods lists the supported mood keywords in alphabetical order.
func Moods() []string {
	moods := make([]string, 0, len(moodGenres))
	for m := range moodGenres {
		moods = append(moods, m)
	}
	sort.Strings(moods)
	return moods
}

// History is what a member has borrowed, current and past.
type History struct {
	Genres  []string
	BookIDs []int64
}
