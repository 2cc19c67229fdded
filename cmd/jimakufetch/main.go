package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"jimakufetch/internal/config"
	"jimakufetch/internal/metrics"
	"jimakufetch/internal/models"
	"jimakufetch/internal/provider"
)

func main() {
	var (
		title    = flag.String("title", "", "media title to search for")
		original = flag.String("original-title", "", "original-language title fallback")
		anilist  = flag.Int("anilist", 0, "AniList id of the media")
		tmdb     = flag.Int("tmdb", 0, "TMDB id of the media")
		movie    = flag.Bool("movie", false, "treat the media as a movie instead of an episode")
		season   = flag.Int("season", 0, "season number")
		episode  = flag.Int("episode", 0, "episode number")
		language = flag.String("lang", models.DefaultLanguage, "requested subtitle language (ISO 639 code)")
		output   = flag.String("o", "", "write the top-ranked subtitle to this file")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	logger := config.GetLogger()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	config.ConfigureLogging(cfg)
	logger = config.GetLogger()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Warn().Err(err).Msg("Sentry initialization failed, continuing without crash reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	kind := models.Episode
	if *movie {
		kind = models.Movie
	}
	identity := models.MediaIdentity{
		Kind:          kind,
		AnilistID:     *anilist,
		TMDBID:        *tmdb,
		Title:         *title,
		OriginalTitle: *original,
		Season:        *season,
		Episode:       *episode,
		Language:      *language,
	}
	if !identity.HasIdentifier() && identity.Title == "" {
		logger.Fatal().Msg("Need at least -title, -anilist or -tmdb")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := provider.New(cfg)
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close provider")
		}
	}()

	descriptors, err := engine.Search(ctx, identity)
	if err != nil {
		sentry.CaptureException(err)
		logger.Fatal().Err(err).Msg("Search failed")
	}
	if len(descriptors) == 0 {
		logger.Info().Msg("No matching subtitles found")
		return
	}

	for i, d := range descriptors {
		logger.Info().
			Int("rank", i).
			Float64("score", d.Score).
			Int64("entryID", d.EntryID).
			Str("entry", d.EntryName).
			Str("file", d.Filename).
			Str("language", d.Language).
			Msg("Candidate")
	}

	if *output == "" {
		return
	}

	// Host-side policy: take the top-ranked descriptor.
	best := descriptors[0]
	content, err := engine.Download(ctx, best)
	if err != nil {
		sentry.CaptureException(err)
		logger.Fatal().Err(err).Str("file", best.Filename).Msg("Download failed")
	}
	if err := os.WriteFile(*output, content, 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", *output).Msg("Failed to write subtitle")
	}
	logger.Info().Str("path", *output).Int("size", len(content)).Msg("Subtitle written")
}
