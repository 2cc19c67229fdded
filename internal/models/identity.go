package models

// MediaKind distinguishes movies from TV episodes.
type MediaKind int

const (
	// Movie is a standalone film.
	Movie MediaKind = iota
	// Episode is a single episode of a series.
	Episode
)

// String returns the human-readable kind name.
func (k MediaKind) String() string {
	if k == Movie {
		return "movie"
	}
	return "episode"
}

// MediaIdentity describes the video file being matched, as resolved by the
// host's identification step. It is constructed by the host and consumed
// read-only by the engine.
type MediaIdentity struct {
	Kind          MediaKind
	AnilistID     int    // AniList identifier, 0 when unknown. The authoritative lookup key.
	TMDBID        int    // TMDB identifier, 0 when unknown. Secondary lookup key.
	Title         string // Primary (usually romanized) title.
	OriginalTitle string // Original-language title, empty when unknown.
	Season        int    // Season number, 0 for movies.
	Episode       int    // Episode number, 0 for movies.
	Language      string // Requested subtitle language as an ISO 639-2/3 code, e.g. "jpn".
}

// HasIdentifier reports whether the identity carries any catalog-linkable
// external identifier.
func (m MediaIdentity) HasIdentifier() bool {
	return m.AnilistID != 0 || m.TMDBID != 0
}
