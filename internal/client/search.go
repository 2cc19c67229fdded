package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/config"
	"jimakufetch/internal/models"
)

// SearchEntries performs one search call against the catalog's entry-search
// endpoint and decodes the resulting page. Pages are cached under the full
// query string, so repeated searches within a run skip the network.
func (c *client) SearchEntries(ctx context.Context, query SearchQuery) (*SearchPage, error) {
	logger := config.GetLogger()

	params := url.Values{}
	switch {
	case query.AnilistID != 0:
		params.Set("anilist_id", strconv.Itoa(query.AnilistID))
	case query.TMDBID != 0:
		kind := "tv"
		if query.TMDBMovie {
			kind = "movie"
		}
		params.Set("tmdb_id", fmt.Sprintf("%s:%d", kind, query.TMDBID))
	case query.Query != "":
		params.Set("query", query.Query)
	default:
		return nil, apperrors.NewProtocolError("search", "empty search query")
	}
	if query.Cursor != "" {
		params.Set("cursor", query.Cursor)
	}

	endpoint := fmt.Sprintf("%s/api/entries/search?%s", strings.TrimRight(c.baseURL, "/"), params.Encode())
	cacheKey := "search?" + params.Encode()

	body, ok := c.cachedResponse(cacheKey)
	if !ok {
		var err error
		body, _, err = c.doRequest(ctx, "search", endpoint, "entries")
		if err != nil {
			return nil, err
		}
		c.storeResponse(cacheKey, body)
	}

	page, err := decodeSearchPage(body)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("entries", len(page.Entries)).
		Str("next", page.Next).
		Msg("Decoded search page")
	return page, nil
}

// decodeSearchPage accepts both response shapes the catalog has used: a bare
// JSON array of entries, and an envelope {"entries": […], "next": "<cursor>"}
// carrying a continuation token.
func decodeSearchPage(body []byte) (*SearchPage, error) {
	var entries []models.Entry

	if err := json.Unmarshal(body, &entries); err != nil {
		var envelope struct {
			Entries []models.Entry `json:"entries"`
			Next    string         `json:"next"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil || envelope.Entries == nil {
			return nil, apperrors.NewProtocolError("search", "response is neither an entry array nor an entry envelope")
		}
		return &SearchPage{Entries: validEntries(envelope.Entries), Next: envelope.Next}, nil
	}

	return &SearchPage{Entries: validEntries(entries)}, nil
}

// validEntries drops records missing required fields so partial catalog data
// never propagates inward.
func validEntries(entries []models.Entry) []models.Entry {
	logger := config.GetLogger()
	valid := entries[:0]
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			logger.Warn().Err(err).Msg("Dropping malformed catalog entry")
			continue
		}
		valid = append(valid, entry)
	}
	return valid
}

func (c *client) cachedResponse(key string) ([]byte, bool) {
	if c.responseCache == nil {
		return nil, false
	}
	return c.responseCache.Get(key)
}

func (c *client) storeResponse(key string, body []byte) {
	if c.responseCache == nil {
		return
	}
	c.responseCache.Set(key, body)
}
