package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// DownloadResult represents the result of a subtitle download after any
// archive extraction.
type DownloadResult struct {
	Filename    string // Name of the subtitle file
	Content     []byte // Content of the subtitle file
	ContentType string // MIME type (e.g., "application/x-subrip")
}

// Payload is a cached subtitle body. It is shared by reference with callers
// and never mutated after insertion into the cache.
type Payload struct {
	Filename string
	Content  []byte
	Checksum string // hex-encoded SHA-256 of Content
}

// NewPayload builds a Payload from a download result, computing its checksum.
func NewPayload(result *DownloadResult) *Payload {
	sum := sha256.Sum256(result.Content)
	return &Payload{
		Filename: result.Filename,
		Content:  result.Content,
		Checksum: hex.EncodeToString(sum[:]),
	}
}
