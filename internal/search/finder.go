package search

import (
	"context"

	"jimakufetch/internal/client"
	"jimakufetch/internal/config"
	"jimakufetch/internal/models"
)

// maxPages bounds transparent pagination per query so a misbehaving catalog
// cannot keep the search spinning.
const maxPages = 5

// Finder resolves a media identity into catalog entries.
type Finder interface {
	// Find returns the deduplicated candidate entries for the identity.
	// An empty result is a valid, non-exceptional outcome.
	Find(ctx context.Context, identity models.MediaIdentity) ([]models.Entry, error)
}

// finder implements Finder on top of the catalog client.
type finder struct {
	client client.Client
}

// NewFinder creates a Finder using the given catalog client.
func NewFinder(c client.Client) Finder {
	return &finder{client: c}
}

// Find tries lookup strategies in order, short-circuiting on the first
// non-empty result set: AniList identifier, TMDB identifier, primary title,
// then original-language title. Identifier lookups are authoritative; title
// queries are the fuzzy fallback.
func (f *finder) Find(ctx context.Context, identity models.MediaIdentity) ([]models.Entry, error) {
	logger := config.GetLogger()

	for _, query := range f.strategies(identity) {
		entries, err := f.findAllPages(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			logger.Debug().
				Int("entries", len(entries)).
				Str("title", identity.Title).
				Msg("Search strategy produced candidates")
			return entries, nil
		}
	}

	logger.Info().Str("title", identity.Title).Msg("No catalog candidates found")
	return nil, nil
}

// strategies builds the ordered query list for the identity.
func (f *finder) strategies(identity models.MediaIdentity) []client.SearchQuery {
	var queries []client.SearchQuery
	if identity.AnilistID != 0 {
		queries = append(queries, client.SearchQuery{AnilistID: identity.AnilistID})
	}
	if identity.TMDBID != 0 {
		queries = append(queries, client.SearchQuery{TMDBID: identity.TMDBID, TMDBMovie: identity.Kind == models.Movie})
	}
	if identity.Title != "" {
		queries = append(queries, client.SearchQuery{Query: identity.Title})
	}
	if identity.OriginalTitle != "" && identity.OriginalTitle != identity.Title {
		queries = append(queries, client.SearchQuery{Query: identity.OriginalTitle})
	}
	return queries
}

// findAllPages follows the catalog's continuation token until an empty page,
// a missing token, or the page bound, concatenating and deduplicating results.
func (f *finder) findAllPages(ctx context.Context, query client.SearchQuery) ([]models.Entry, error) {
	seen := make(map[int64]int) // entry id -> index in entries; last seen wins
	var entries []models.Entry

	for page := 0; page < maxPages; page++ {
		result, err := f.client.SearchEntries(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(result.Entries) == 0 {
			break
		}
		for _, entry := range result.Entries {
			if i, dup := seen[entry.ID]; dup {
				entries[i] = entry
				continue
			}
			seen[entry.ID] = len(entries)
			entries = append(entries, entry)
		}
		if result.Next == "" {
			break
		}
		query.Cursor = result.Next
	}

	return entries, nil
}
