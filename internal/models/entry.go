package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLanguage is the language the catalog declares for its subtitle
// corpus. Files whose language cannot be inferred default to it.
const DefaultLanguage = "jpn"

// EntryFlags carries the moderation flags the catalog attaches to an entry.
type EntryFlags struct {
	Adult      bool `json:"adult"`
	Anime      bool `json:"anime"`
	External   bool `json:"external"`
	Movie      bool `json:"movie"`
	Unverified bool `json:"unverified"`
}

// Entry is one series/movie record returned by the catalog.
type Entry struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`          // Romanized display title
	EnglishName  string     `json:"english_name"`  // English title, may be empty
	JapaneseName string     `json:"japanese_name"` // Kanji/kana title, may be empty
	Flags        EntryFlags `json:"flags"`
	AnilistID    int        `json:"anilist_id"`
	TMDBID       string     `json:"tmdb_id"` // "tv:<id>" or "movie:<id>", may be empty
	Notes        string     `json:"notes"`
	LastModified time.Time  `json:"last_modified"`
}

// Validate rejects entries the catalog returned without the fields the engine
// depends on. Untyped or partial records never propagate past the client.
func (e *Entry) Validate() error {
	if e.ID == 0 {
		return fmt.Errorf("entry is missing id")
	}
	if e.Name == "" {
		return fmt.Errorf("entry %d is missing name", e.ID)
	}
	return nil
}

// AlternateTitles returns the non-empty titles of the entry besides Name.
func (e *Entry) AlternateTitles() []string {
	var titles []string
	if e.EnglishName != "" {
		titles = append(titles, e.EnglishName)
	}
	if e.JapaneseName != "" {
		titles = append(titles, e.JapaneseName)
	}
	return titles
}

// TMDBNumericID parses the numeric part of the entry's TMDB cross-reference.
// Returns 0 when the entry has none or the value is malformed.
func (e *Entry) TMDBNumericID() int {
	_, raw, ok := strings.Cut(e.TMDBID, ":")
	if !ok {
		return 0
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return id
}

// MatchesIdentifier reports whether any of the identity's external identifiers
// equals one of the entry's cross-references.
func (e *Entry) MatchesIdentifier(identity MediaIdentity) bool {
	if identity.AnilistID != 0 && identity.AnilistID == e.AnilistID {
		return true
	}
	if identity.TMDBID != 0 && identity.TMDBID == e.TMDBNumericID() {
		return true
	}
	return false
}
