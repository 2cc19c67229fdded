package models

import (
	"fmt"
	"time"
)

// File is one downloadable subtitle resource under a catalog entry.
// Episode and Language are inferred from the filename after decoding; zero
// values mean "not inferred".
type File struct {
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`

	// Derived fields, populated by the client after decoding.
	Episode  int    `json:"-"` // 0 when the filename names no episode (movie or batch archive)
	Language string `json:"-"` // defaults to the entry's declared language
}

// Validate rejects file records missing the fields needed to download them.
func (f *File) Validate() error {
	if f.URL == "" {
		return fmt.Errorf("file %q is missing download url", f.Name)
	}
	if f.Name == "" {
		return fmt.Errorf("file record is missing name")
	}
	return nil
}

// EntryFiles pairs an entry with its decoded file listing. It is the ranker's
// input unit.
type EntryFiles struct {
	Entry Entry
	Files []File
}
