package client

import (
	"context"
	"errors"
	"io"
	"net/http"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/config"
	"jimakufetch/internal/metrics"
)

// doRequest performs one logical catalog call (the resilience transport may
// issue several attempts underneath) and returns the response body and
// content type. Errors are already classified into the apperrors taxonomy.
func (c *client) doRequest(ctx context.Context, endpoint, requestURL, resource string) ([]byte, string, error) {
	if c.apiKey == "" {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "auth_error").Inc()
		return nil, "", apperrors.NewMissingCredentialError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, "", apperrors.NewProtocolError(endpoint, "invalid request URL: "+err.Error())
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Host cancellation is not a catalog failure; let it surface as-is.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "cancelled").Inc()
			return nil, "", err
		}
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "transient").Inc()
		return nil, "", &apperrors.ErrTransient{Cause: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, endpoint, requestURL, resource); err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, statusLabel(err)).Inc()
		logger := config.GetLogger()
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("endpoint", endpoint).
			Msg("Catalog request failed")
		return nil, "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "transient").Inc()
		return nil, "", &apperrors.ErrTransient{Cause: err}
	}

	metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "ok").Inc()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return body, contentType, nil
}

// classifyStatus maps a final HTTP status (after the retry policy has given
// up) onto the error taxonomy. 429 and 5xx only reach this point with their
// retries exhausted, so they surface as transient failures.
func classifyStatus(status int, endpoint, requestURL, resource string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewAuthError(status)
	case status == http.StatusNotFound:
		return apperrors.NewNotFoundError(resource, requestURL)
	case status == http.StatusTooManyRequests || status >= 500:
		return &apperrors.ErrTransient{Status: status}
	default:
		return apperrors.NewProtocolError(endpoint, http.StatusText(status))
	}
}

func statusLabel(err error) string {
	switch {
	case errors.Is(err, &apperrors.ErrAuth{}):
		return "auth_error"
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return "not_found"
	case errors.Is(err, &apperrors.ErrTransient{}):
		return "transient"
	default:
		return "protocol_error"
	}
}
