package client

import (
	"context"

	"jimakufetch/internal/config"
)

// DownloadFile fetches a subtitle file resource and returns its raw bytes and
// content type. 404 surfaces as ErrNotFound and is never retried; transient
// failures go through the same retry policy as every other call. Downloads
// are not cached here — payload caching with single-flight semantics lives in
// the services layer.
func (c *client) DownloadFile(ctx context.Context, fileURL string) ([]byte, string, error) {
	logger := config.GetLogger()
	logger.Info().Str("url", fileURL).Msg("Downloading subtitle file")

	body, contentType, err := c.doRequest(ctx, "download", fileURL, "subtitle file")
	if err != nil {
		return nil, "", err
	}

	logger.Debug().
		Int("size", len(body)).
		Str("contentType", contentType).
		Msg("Downloaded subtitle file")
	return body, contentType, nil
}
