package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/config"
	"jimakufetch/internal/models"
	"jimakufetch/internal/parser"
)

// ListFiles returns the decoded file listing of an entry. Episode numbers and
// languages are inferred from filenames here, at the boundary, so everything
// inward works with complete records. Listings are cached per entry id.
func (c *client) ListFiles(ctx context.Context, entryID int64) ([]models.File, error) {
	logger := config.GetLogger()

	endpoint := fmt.Sprintf("%s/api/entries/%d/files", strings.TrimRight(c.baseURL, "/"), entryID)
	cacheKey := fmt.Sprintf("files/%d", entryID)

	body, ok := c.cachedResponse(cacheKey)
	if !ok {
		var err error
		body, _, err = c.doRequest(ctx, "files", endpoint, "entry files")
		if err != nil {
			return nil, err
		}
		c.storeResponse(cacheKey, body)
	}

	var files []models.File
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, apperrors.NewProtocolError("files", "response is not a file array: "+err.Error())
	}

	valid := files[:0]
	for _, file := range files {
		if err := file.Validate(); err != nil {
			logger.Warn().Err(err).Int64("entryID", entryID).Msg("Dropping malformed file record")
			continue
		}
		file.Episode = parser.InferEpisode(file.Name)
		if parser.IsBatch(file.Name) {
			file.Episode = 0
		}
		file.Language = parser.InferLanguage(file.Name, models.DefaultLanguage)
		valid = append(valid, file)
	}

	logger.Debug().Int64("entryID", entryID).Int("files", len(valid)).Msg("Decoded file listing")
	return valid, nil
}
