package models

import "testing"

func TestEntryValidate(t *testing.T) {
	t.Parallel()

	valid := Entry{ID: 10, Name: "Sousou no Frieren"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid entry, got: %v", err)
	}

	missingID := Entry{Name: "Sousou no Frieren"}
	if err := missingID.Validate(); err == nil {
		t.Fatal("Expected error for entry without id")
	}

	missingName := Entry{ID: 10}
	if err := missingName.Validate(); err == nil {
		t.Fatal("Expected error for entry without name")
	}
}

func TestEntryTMDBNumericID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want int
	}{
		{"tv:12345", 12345},
		{"movie:777", 777},
		{"", 0},
		{"garbage", 0},
		{"tv:notanumber", 0},
	}

	for _, tc := range cases {
		entry := Entry{TMDBID: tc.raw}
		if got := entry.TMDBNumericID(); got != tc.want {
			t.Errorf("TMDBNumericID(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestEntryMatchesIdentifier(t *testing.T) {
	t.Parallel()

	entry := Entry{ID: 1, Name: "Show", AnilistID: 154587, TMDBID: "tv:66875"}

	if !entry.MatchesIdentifier(MediaIdentity{AnilistID: 154587}) {
		t.Error("Expected anilist id to match")
	}
	if !entry.MatchesIdentifier(MediaIdentity{TMDBID: 66875}) {
		t.Error("Expected tmdb id to match")
	}
	if entry.MatchesIdentifier(MediaIdentity{AnilistID: 42}) {
		t.Error("Expected different anilist id to not match")
	}
	if entry.MatchesIdentifier(MediaIdentity{}) {
		t.Error("Expected identity without identifiers to not match")
	}
}

func TestEntryAlternateTitles(t *testing.T) {
	t.Parallel()

	entry := Entry{
		ID:           1,
		Name:         "Sousou no Frieren",
		EnglishName:  "Frieren: Beyond Journey's End",
		JapaneseName: "葬送のフリーレン",
	}
	titles := entry.AlternateTitles()
	if len(titles) != 2 {
		t.Fatalf("Expected 2 alternate titles, got %d", len(titles))
	}

	bare := Entry{ID: 2, Name: "Show"}
	if len(bare.AlternateTitles()) != 0 {
		t.Error("Expected no alternate titles")
	}
}

func TestDescriptorCacheKey(t *testing.T) {
	t.Parallel()

	d := Descriptor{EntryID: 123, Filename: "show.05.ja.srt"}
	if d.CacheKey() != "123/show.05.ja.srt" {
		t.Errorf("Unexpected cache key: %s", d.CacheKey())
	}
}

func TestNewPayloadChecksum(t *testing.T) {
	t.Parallel()

	a := NewPayload(&DownloadResult{Filename: "a.srt", Content: []byte("same content")})
	b := NewPayload(&DownloadResult{Filename: "b.srt", Content: []byte("same content")})
	c := NewPayload(&DownloadResult{Filename: "c.srt", Content: []byte("other content")})

	if a.Checksum != b.Checksum {
		t.Error("Expected identical content to produce identical checksums")
	}
	if a.Checksum == c.Checksum {
		t.Error("Expected different content to produce different checksums")
	}
	if len(a.Checksum) != 64 {
		t.Errorf("Expected hex sha256 checksum, got %q", a.Checksum)
	}
}
