package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/client"
	"jimakufetch/internal/config"
	"jimakufetch/internal/metrics"
	"jimakufetch/internal/models"
	"jimakufetch/internal/parser"
)

// defaultDownloadManager implements DownloadManager on top of the catalog client.
type defaultDownloadManager struct {
	client client.Client
}

// NewDownloadManager creates a DownloadManager using the given catalog client.
func NewDownloadManager(c client.Client) DownloadManager {
	return &defaultDownloadManager{client: c}
}

// Fetch downloads the descriptor's file, extracts from archives when needed,
// and verifies the payload is plausibly subtitle text before returning it.
func (d *defaultDownloadManager) Fetch(ctx context.Context, descriptor models.Descriptor) (*models.DownloadResult, error) {
	logger := config.GetLogger()
	logger.Info().
		Int64("entryID", descriptor.EntryID).
		Str("filename", descriptor.Filename).
		Int("episode", descriptor.Episode).
		Msg("Fetching subtitle")

	content, contentType, err := d.client.DownloadFile(ctx, descriptor.URL)
	if err != nil {
		metrics.SubtitleDownloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	result := &models.DownloadResult{
		Filename:    descriptor.Filename,
		Content:     content,
		ContentType: contentType,
	}

	if parser.IsArchive(descriptor.Filename) || strings.Contains(contentType, "zip") {
		result, err = extractFromArchive(descriptor, content)
		if err != nil {
			metrics.SubtitleDownloadsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		logger.Info().
			Str("inner", result.Filename).
			Int("size", len(result.Content)).
			Msg("Extracted subtitle from archive")
	}

	if err := verifyPayload(result); err != nil {
		metrics.SubtitleDownloadsTotal.WithLabelValues("corrupt").Inc()
		return nil, err
	}

	metrics.SubtitleDownloadsTotal.WithLabelValues("ok").Inc()
	return result, nil
}

// verifyPayload rejects payloads that cannot be real subtitle text: empty or
// undersized bodies, and bodies that look binary after charset decoding.
func verifyPayload(result *models.DownloadResult) error {
	if len(result.Content) == 0 {
		return &apperrors.ErrCorruptPayload{Filename: result.Filename, Reason: "empty payload"}
	}
	if len(result.Content) < parser.MinSubtitleSize {
		return &apperrors.ErrCorruptPayload{
			Filename: result.Filename,
			Reason:   fmt.Sprintf("payload is %d bytes, below the %d byte floor", len(result.Content), parser.MinSubtitleSize),
		}
	}

	// Decode through charset detection so legacy encodings are not mistaken
	// for binary, then check the head for NUL bytes.
	reader, err := charset.NewReader(bytes.NewReader(result.Content), result.ContentType)
	if err != nil {
		return &apperrors.ErrCorruptPayload{Filename: result.Filename, Reason: "undecodable text encoding"}
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return &apperrors.ErrCorruptPayload{Filename: result.Filename, Reason: "unreadable payload"}
	}
	if bytes.IndexByte(head[:n], 0) >= 0 {
		return &apperrors.ErrCorruptPayload{Filename: result.Filename, Reason: "payload is not text"}
	}
	return nil
}

// contentTypeFromFilename derives a MIME type from a subtitle file extension.
func contentTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".srt":
		return "application/x-subrip"
	case ".ass", ".ssa":
		return "application/x-ass"
	case ".vtt":
		return "text/vtt"
	case ".sub":
		return "application/x-sub"
	case ".smi":
		return "application/x-sami"
	default:
		return "text/plain"
	}
}
