package parser

import "testing"

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Example Show!", "example show"},
		{"  Example   Show  ", "example show"},
		{"Pokémon", "pokemon"},
		{"Re:Zero - Starting Life", "re zero starting life"},
		{"K-ON!!", "k on"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTitleSimilarity(t *testing.T) {
	t.Parallel()

	// Case and punctuation insensitive equality
	if sim := TitleSimilarity("Example Show", "example show!"); sim != 1 {
		t.Errorf("Expected similarity 1 for punctuation variants, got %f", sim)
	}

	// Partial token overlap
	sim := TitleSimilarity("Example Show", "Example Show Second Season")
	if sim <= 0 || sim >= 1 {
		t.Errorf("Expected partial similarity in (0, 1), got %f", sim)
	}

	// No overlap
	if sim := TitleSimilarity("Example Show", "Completely Different"); sim != 0 {
		t.Errorf("Expected similarity 0 for unrelated titles, got %f", sim)
	}

	// Empty input never matches
	if sim := TitleSimilarity("", "Example Show"); sim != 0 {
		t.Errorf("Expected similarity 0 for empty title, got %f", sim)
	}

	// Deterministic
	a := TitleSimilarity("Sousou no Frieren", "Frieren: Beyond Journey's End")
	b := TitleSimilarity("Sousou no Frieren", "Frieren: Beyond Journey's End")
	if a != b {
		t.Errorf("Expected deterministic similarity, got %f and %f", a, b)
	}
}
