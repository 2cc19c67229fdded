package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/ratelimiter"

	"jimakufetch/internal/cache"
	"jimakufetch/internal/config"
	"jimakufetch/internal/models"
)

// SearchQuery names the lookup the catalog's search endpoint should perform.
// Exactly one of AnilistID, TMDBID or Query is used, in that precedence.
type SearchQuery struct {
	AnilistID int
	TMDBID    int
	TMDBMovie bool // with TMDBID: whether the TMDB id names a movie ("movie:") or series ("tv:")
	Query     string
	Cursor    string // continuation token from a previous page, empty for the first page
}

// SearchPage is one page of search results with its continuation token.
type SearchPage struct {
	Entries []models.Entry
	Next    string // empty when this is the last page
}

// Client defines the low-level interface to the Jimaku catalog API.
// All methods are safe for concurrent use; retry, backoff and rate limiting
// happen below this interface.
type Client interface {
	// SearchEntries performs one search call and returns the decoded page.
	SearchEntries(ctx context.Context, query SearchQuery) (*SearchPage, error)

	// ListFiles returns the subtitle files available under an entry, with
	// episode and language inferred from filenames.
	ListFiles(ctx context.Context, entryID int64) ([]models.File, error)

	// DownloadFile fetches a file resource and returns its bytes and content type.
	DownloadFile(ctx context.Context, fileURL string) ([]byte, string, error)

	// Close releases resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface.
type client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	userAgent     string
	responseCache cache.Cache
}

// NewClient creates a catalog client from config. The returned client carries
// the full resilience stack: API-key injection, compression, a smooth rate
// limiter shared across all calls, and retry with exponential backoff and
// jitter for transient failures (429 honors Retry-After).
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	timeout := parseDurationOr(cfg.ClientTimeout, 30*time.Second)

	// Clone DefaultTransport to preserve its pooling and handshake settings.
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	// Per-attempt bound on connect + time to first response byte. The retry
	// policy treats it as any other transient failure.
	baseTransport.ResponseHeaderTimeout = timeout

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	// Retry outside the rate limiter: every retry attempt re-acquires a slot,
	// so backoff never lets a burst through.
	retry := failsafehttp.NewRetryPolicyBuilder().
		WithBackoff(parseDurationOr(cfg.Retry.BaseDelay, 500*time.Millisecond), parseDurationOr(cfg.Retry.MaxDelay, 30*time.Second)).
		WithJitterFactor(0.2).
		WithMaxRetries(maxRetriesOr(cfg.Retry.MaxRetries, 3)).
		ReturnLastFailure().
		Build()

	limiter := ratelimiter.NewSmoothBuilderWithMaxRate[*http.Response](parseDurationOr(cfg.RateLimit.Interval, time.Second)).
		WithMaxWaitTime(parseDurationOr(cfg.RateLimit.MaxWait, time.Minute)).
		Build()

	transport := failsafehttp.NewRoundTripper(
		newCompressionTransport(baseTransport),
		retry, limiter,
	)

	responseCache, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           parseDurationOr(cfg.Cache.TTL, time.Hour),
		Logger:        zerologCacheLogger{},
		RedisAddress:  cfg.Cache.RedisAddress,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		Group:         "catalog",
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Cache.Provider).Msg("Catalog response cache unavailable, continuing without caching")
		responseCache = nil
	}

	return &client{
		httpClient:    &http.Client{Transport: transport},
		baseURL:       cfg.JimakuDomain,
		apiKey:        cfg.APIKey,
		userAgent:     cfg.UserAgent,
		responseCache: responseCache,
	}
}

// Close releases the response cache's resources.
func (c *client) Close() error {
	if c.responseCache != nil {
		return c.responseCache.Close()
	}
	return nil
}

// zerologCacheLogger adapts the package logger to the cache's Logger interface.
type zerologCacheLogger struct{}

func (zerologCacheLogger) Errorf(format string, args ...interface{}) {
	logger := config.GetLogger()
	logger.Error().Msgf(format, args...)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("duration", raw).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}

func maxRetriesOr(configured, fallback int) int {
	if configured <= 0 {
		return fallback
	}
	return configured
}
