package provider

import (
	"context"
	"errors"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/client"
	"jimakufetch/internal/config"
	"jimakufetch/internal/matcher"
	"jimakufetch/internal/models"
	"jimakufetch/internal/parser"
	"jimakufetch/internal/search"
	"jimakufetch/internal/services"
)

// Provider is the engine's host-facing contract: resolve a media identity
// into ranked subtitle descriptors, and download a chosen descriptor's bytes.
// Implementations are safe for concurrent use across media files.
type Provider interface {
	// Search returns descriptors ordered by descending match score. An empty
	// list (not an error) means nothing plausible was found.
	Search(ctx context.Context, identity models.MediaIdentity) ([]models.Descriptor, error)

	// Download returns the raw subtitle bytes for a descriptor previously
	// returned by Search. Repeated downloads of the same descriptor are
	// served from the in-process cache.
	Download(ctx context.Context, descriptor models.Descriptor) ([]byte, error)

	// Close releases resources held by the provider.
	Close() error
}

// provider composes the engine's components behind the host contract.
type provider struct {
	client       client.Client
	finder       search.Finder
	ranker       matcher.Ranker
	payloadCache *services.PayloadCache
	downloads    services.DownloadManager
}

// New creates a Provider from config. The config must carry already-resolved
// credentials; the provider never reads files or environment itself.
func New(cfg *config.Config) Provider {
	catalogClient := client.NewClient(cfg)
	return &provider{
		client:       catalogClient,
		finder:       search.NewFinder(catalogClient),
		ranker:       matcher.NewRanker(),
		payloadCache: services.NewPayloadCache(),
		downloads:    services.NewDownloadManager(catalogClient),
	}
}

// NewWithClient creates a Provider over an existing catalog client. Used by
// tests and by hosts that manage client lifetime themselves.
func NewWithClient(catalogClient client.Client) Provider {
	return &provider{
		client:       catalogClient,
		finder:       search.NewFinder(catalogClient),
		ranker:       matcher.NewRanker(),
		payloadCache: services.NewPayloadCache(),
		downloads:    services.NewDownloadManager(catalogClient),
	}
}

func (p *provider) Search(ctx context.Context, identity models.MediaIdentity) ([]models.Descriptor, error) {
	logger := config.GetLogger()

	entries, err := p.finder.Find(ctx, identity)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	candidates := make([]models.EntryFiles, 0, len(entries))
	for _, entry := range entries {
		files, err := p.client.ListFiles(ctx, entry.ID)
		if err != nil {
			// An entry whose listing vanished between search and listing is
			// not a failure of the whole search.
			if errors.Is(err, &apperrors.ErrNotFound{}) {
				logger.Warn().Int64("entryID", entry.ID).Msg("Entry file listing gone, skipping")
				continue
			}
			return nil, err
		}

		usable := files[:0]
		for _, file := range files {
			if parser.UsableFile(file.Name, file.Size) {
				usable = append(usable, file)
			}
		}
		if len(usable) == 0 {
			continue
		}
		candidates = append(candidates, models.EntryFiles{Entry: entry, Files: usable})
	}

	descriptors := p.ranker.Rank(identity, candidates)
	logger.Info().
		Str("title", identity.Title).
		Int("entries", len(entries)).
		Int("descriptors", len(descriptors)).
		Msg("Search complete")
	return descriptors, nil
}

func (p *provider) Download(ctx context.Context, descriptor models.Descriptor) ([]byte, error) {
	payload, err := p.payloadCache.GetOrFetch(ctx, descriptor.CacheKey(), func() (*models.DownloadResult, error) {
		return p.downloads.Fetch(ctx, descriptor)
	})
	if err != nil {
		return nil, err
	}
	return payload.Content, nil
}

func (p *provider) Close() error {
	return p.client.Close()
}
