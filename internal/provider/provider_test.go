package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/client"
	"jimakufetch/internal/models"
	"jimakufetch/internal/parser"
)

// fakeCatalog is an in-memory catalog: entries keyed by anilist id, file
// listings and downloadable payloads keyed by entry id and URL.
type fakeCatalog struct {
	entries   map[int][]models.Entry
	files     map[int64][]models.File
	payloads  map[string][]byte
	downloads atomic.Int32
}

func (f *fakeCatalog) SearchEntries(_ context.Context, query client.SearchQuery) (*client.SearchPage, error) {
	return &client.SearchPage{Entries: f.entries[query.AnilistID]}, nil
}

func (f *fakeCatalog) ListFiles(_ context.Context, entryID int64) ([]models.File, error) {
	files, ok := f.files[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("entry", entryID)
	}
	// Mirror the real client: derived fields are populated at the boundary.
	out := make([]models.File, len(files))
	for i, file := range files {
		file.Episode = parser.InferEpisode(file.Name)
		if parser.IsBatch(file.Name) {
			file.Episode = 0
		}
		file.Language = parser.InferLanguage(file.Name, models.DefaultLanguage)
		out[i] = file
	}
	return out, nil
}

func (f *fakeCatalog) DownloadFile(_ context.Context, fileURL string) ([]byte, string, error) {
	f.downloads.Add(1)
	content, ok := f.payloads[fileURL]
	if !ok {
		return nil, "", apperrors.NewNotFoundError("subtitle file", fileURL)
	}
	return content, "application/x-subrip", nil
}

func (f *fakeCatalog) Close() error { return nil }

func subtitleBody(tag string) []byte {
	var b bytes.Buffer
	for i := 1; b.Len() < 600; i++ {
		fmt.Fprintf(&b, "%d\n00:%02d:00,000 --> 00:%02d:05,000\n%s line %d\n\n", i, i, i, tag, i)
	}
	return b.Bytes()
}

func newTestCatalog() *fakeCatalog {
	return &fakeCatalog{
		entries: map[int][]models.Entry{
			123: {{ID: 1, Name: "Example Show", AnilistID: 123}},
		},
		files: map[int64][]models.File{
			1: {
				{URL: "https://files.example/ja", Name: "example.show.05.ja.srt", Size: 2048},
				{URL: "https://files.example/en", Name: "example.show.05.en.srt", Size: 2048},
				{URL: "https://files.example/whisper", Name: "example.show.05 [whisper].srt", Size: 2048},
				{URL: "https://files.example/tiny", Name: "example.show.05.sig.srt", Size: 100},
			},
		},
		payloads: map[string][]byte{
			"https://files.example/ja": subtitleBody("japanese"),
			"https://files.example/en": subtitleBody("english"),
		},
	}
}

func episodeIdentity() models.MediaIdentity {
	return models.MediaIdentity{
		Kind:      models.Episode,
		AnilistID: 123,
		Title:     "Example Show",
		Episode:   5,
		Language:  "jpn",
	}
}

func TestSearchRanksRequestedLanguageFirst(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(newTestCatalog())
	defer engine.Close()

	descriptors, err := engine.Search(context.Background(), episodeIdentity())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("Expected 2 descriptors after filtering, got %d", len(descriptors))
	}
	if descriptors[0].Filename != "example.show.05.ja.srt" {
		t.Errorf("Expected requested language first, got %q", descriptors[0].Filename)
	}
	for _, d := range descriptors {
		if d.Filename == "example.show.05 [whisper].srt" || d.Filename == "example.show.05.sig.srt" {
			t.Errorf("Expected unusable file %q to be filtered out", d.Filename)
		}
	}
}

func TestSearchEmptyCatalogIsNotAnError(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(&fakeCatalog{})
	defer engine.Close()

	descriptors, err := engine.Search(context.Background(), models.MediaIdentity{Title: "Unknown Show"})
	if err != nil {
		t.Fatalf("Expected no error for empty catalog, got %v", err)
	}
	if len(descriptors) != 0 {
		t.Errorf("Expected no descriptors, got %d", len(descriptors))
	}
}

func TestSearchSkipsVanishedListings(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog()
	catalog.entries[123] = append(catalog.entries[123], models.Entry{ID: 99, Name: "Example Show", AnilistID: 123})
	// Entry 99 has no listing: ListFiles returns not-found for it.

	engine := NewWithClient(catalog)
	defer engine.Close()

	descriptors, err := engine.Search(context.Background(), episodeIdentity())
	if err != nil {
		t.Fatalf("Expected vanished listing to be skipped, got %v", err)
	}
	if len(descriptors) != 2 {
		t.Errorf("Expected descriptors from the surviving entry, got %d", len(descriptors))
	}
}

func TestDownloadIdempotent(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog()
	engine := NewWithClient(catalog)
	defer engine.Close()

	ctx := context.Background()
	descriptors, err := engine.Search(ctx, episodeIdentity())
	if err != nil || len(descriptors) == 0 {
		t.Fatalf("Search failed: %v (%d descriptors)", err, len(descriptors))
	}
	best := descriptors[0]

	first, err := engine.Download(ctx, best)
	if err != nil {
		t.Fatalf("First download failed: %v", err)
	}
	second, err := engine.Download(ctx, best)
	if err != nil {
		t.Fatalf("Second download failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected repeated downloads to return identical bytes")
	}
	if catalog.downloads.Load() != 1 {
		t.Errorf("Expected one network download, got %d", catalog.downloads.Load())
	}
}

func TestDownloadConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog()
	engine := NewWithClient(catalog)
	defer engine.Close()

	ctx := context.Background()
	descriptors, err := engine.Search(ctx, episodeIdentity())
	if err != nil || len(descriptors) == 0 {
		t.Fatalf("Search failed: %v (%d descriptors)", err, len(descriptors))
	}
	best := descriptors[0]

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.Download(ctx, best)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("Caller %d failed: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], results[0]) {
			t.Errorf("Caller %d received different bytes", i)
		}
	}
	if catalog.downloads.Load() != 1 {
		t.Errorf("Expected concurrent downloads to share one fetch, got %d", catalog.downloads.Load())
	}
}

func TestDownloadMissingFile(t *testing.T) {
	t.Parallel()

	engine := NewWithClient(newTestCatalog())
	defer engine.Close()

	_, err := engine.Download(context.Background(), models.Descriptor{
		EntryID:  1,
		Filename: "gone.srt",
		URL:      "https://files.example/gone",
	})
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func createTestZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in test zip: %v", name, err)
		}
		if _, err := f.Write(content); err != nil {
			t.Fatalf("Failed to write %s in test zip: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close test zip: %v", err)
	}
	return buf.Bytes()
}

func TestSearchThenDownloadBatchArchive(t *testing.T) {
	t.Parallel()

	want := subtitleBody("batch episode five")
	archive := createTestZip(t, map[string][]byte{
		"Show - 05.ja.srt": want,
		"Show - 06.ja.srt": subtitleBody("batch episode six"),
	})
	catalog := &fakeCatalog{
		entries: map[int][]models.Entry{
			123: {{ID: 1, Name: "Example Show", AnilistID: 123}},
		},
		files: map[int64][]models.File{
			1: {{URL: "https://files.example/batch", Name: "Show S01 Batch.zip", Size: 1 << 20}},
		},
		payloads: map[string][]byte{
			"https://files.example/batch": archive,
		},
	}
	engine := NewWithClient(catalog)
	defer engine.Close()

	ctx := context.Background()
	descriptors, err := engine.Search(ctx, episodeIdentity())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(descriptors) != 1 {
		t.Fatalf("Expected the batch archive as a candidate, got %d descriptors", len(descriptors))
	}
	if descriptors[0].Episode != 5 {
		t.Errorf("Expected descriptor to carry the requested episode, got %d", descriptors[0].Episode)
	}

	content, err := engine.Download(ctx, descriptors[0])
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !bytes.Equal(content, want) {
		t.Error("Expected the requested episode's subtitle extracted from the batch")
	}
}

func TestSearchThenDownloadSingleEpisodeArchive(t *testing.T) {
	t.Parallel()

	want := subtitleBody("episode five")
	archive := createTestZip(t, map[string][]byte{
		"Show.S01E05.ja.srt": want,
	})
	catalog := &fakeCatalog{
		entries: map[int][]models.Entry{
			123: {{ID: 1, Name: "Example Show", AnilistID: 123}},
		},
		files: map[int64][]models.File{
			1: {{URL: "https://files.example/ep5", Name: "Show.S01E05.zip", Size: 1 << 20}},
		},
		payloads: map[string][]byte{
			"https://files.example/ep5": archive,
		},
	}
	engine := NewWithClient(catalog)
	defer engine.Close()

	ctx := context.Background()
	descriptors, err := engine.Search(ctx, episodeIdentity())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(descriptors) != 1 {
		t.Fatalf("Expected 1 descriptor, got %d", len(descriptors))
	}
	// The archive names its episode, so it scores the episode bonus rather
	// than the batch penalty.
	if descriptors[0].Episode != 5 {
		t.Errorf("Expected inferred episode 5, got %d", descriptors[0].Episode)
	}

	content, err := engine.Download(ctx, descriptors[0])
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !bytes.Equal(content, want) {
		t.Error("Expected the archive's subtitle extracted")
	}
}

func TestSearchFuzzyTitleFallback(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		entries: map[int][]models.Entry{
			// No identifier matches; the title strategy returns a near-miss.
			0: {{ID: 7, Name: "Example Show Second Season"}},
		},
		files: map[int64][]models.File{
			7: {{URL: "https://files.example/s2", Name: "s2.05.ja.srt", Size: 2048}},
		},
		payloads: map[string][]byte{
			"https://files.example/s2": subtitleBody("season two"),
		},
	}
	engine := NewWithClient(catalog)
	defer engine.Close()

	descriptors, err := engine.Search(context.Background(), models.MediaIdentity{
		Kind:     models.Episode,
		Title:    "Example Show",
		Episode:  5,
		Language: "jpn",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(descriptors) != 1 {
		t.Fatalf("Expected 1 fuzzy match, got %d", len(descriptors))
	}
	if descriptors[0].Score <= 0 || descriptors[0].Score >= 1000 {
		t.Errorf("Expected positive sub-identifier score, got %f", descriptors[0].Score)
	}
}
