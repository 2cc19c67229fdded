package models

import "fmt"

// Descriptor is the ranked output unit returned to the host: one candidate
// subtitle file with its score. It carries everything Download needs, so the
// host never has to hold on to catalog records.
type Descriptor struct {
	EntryID   int64   `json:"entryId"`
	EntryName string  `json:"entryName"`
	Filename  string  `json:"filename"`
	URL       string  `json:"url"`
	Score     float64 `json:"score"`
	Language  string  `json:"language"`
	Episode   int     `json:"episode"` // episode to serve: inferred from the filename, or the requested one when the name names none; 0 for movies
}

// CacheKey identifies the descriptor's payload in the subtitle cache.
// Filenames are unique within an entry, so (entry id, filename) is stable
// for the lifetime of a run.
func (d Descriptor) CacheKey() string {
	return fmt.Sprintf("%d/%s", d.EntryID, d.Filename)
}
