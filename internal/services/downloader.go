package services

import (
	"context"

	"jimakufetch/internal/models"
)

// DownloadManager resolves a ranked descriptor into raw subtitle bytes,
// unpacking archives and verifying the payload on the way.
type DownloadManager interface {
	// Fetch downloads the descriptor's file. When the file is an archive the
	// single best-matching inner subtitle is selected using the descriptor's
	// episode and language.
	Fetch(ctx context.Context, descriptor models.Descriptor) (*models.DownloadResult, error)
}
