package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// MinSubtitleSize is the smallest size in bytes a real subtitle file can
// plausibly have. Smaller files are placeholder or junk uploads.
const MinSubtitleSize = 500

// subtitleExtensions lists the file extensions treated as subtitle tracks.
var subtitleExtensions = map[string]bool{
	".srt": true,
	".ass": true,
	".ssa": true,
	".vtt": true,
	".sub": true,
	".smi": true,
	".txt": true,
}

// archiveExtensions lists the archive formats the download manager can unpack.
var archiveExtensions = map[string]bool{
	".zip": true,
	".rar": true,
	".7z":  true,
}

// whisperPattern matches machine-transcription markers like "[whisperai]"
// that the catalog's uploaders tag low-quality tracks with.
var whisperPattern = regexp.MustCompile(`(?i)[\[(]whisper(?:ai)?[\])]`)

// HasSubtitleExtension reports whether the filename ends in a known subtitle
// extension.
func HasSubtitleExtension(name string) bool {
	return subtitleExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsArchive reports whether the filename ends in a supported archive extension.
func IsArchive(name string) bool {
	return archiveExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsWhisperTagged reports whether the filename carries a machine-transcription
// marker.
func IsWhisperTagged(name string) bool {
	return whisperPattern.MatchString(name)
}

// UsableFile reports whether a catalog file is worth ranking at all:
// a subtitle track or unpackable archive, not whisper-tagged, and not too
// small to hold real content. Archives are exempt from the size floor check
// only in the sense that they are always larger anyway.
func UsableFile(name string, size int64) bool {
	if IsWhisperTagged(name) {
		return false
	}
	if !HasSubtitleExtension(name) && !IsArchive(name) {
		return false
	}
	return size >= MinSubtitleSize
}

// Episode marker patterns, most explicit first.
var (
	seasonEpisodePattern = regexp.MustCompile(`(?i)s\d{1,2}[ ._]?e(\d{1,3})(?:\D|$)`)
	crossEpisodePattern  = regexp.MustCompile(`(?i)\b\d{1,2}x(\d{1,3})\b`)
	epWordPattern        = regexp.MustCompile(`(?i)(?:^|[^a-z])ep(?:isode)?[ ._#-]?(\d{1,3})(?:\D|$)`)
	bareEPattern         = regexp.MustCompile(`(?i)(?:^|[ ._-])e(\d{2,3})(?:\D|$)`)
	trailingNumPattern   = regexp.MustCompile(`(?:^|[^0-9A-Za-z])(\d{1,2})(?:v\d)?(?:[^0-9A-Za-z]|$)`)

	bracketGroupPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	noiseTokenPattern   = regexp.MustCompile(`(?i)\b(?:480p?|720p?|1080p?|2160p?|x26[45]|h26[45]|hevc|10bit|8bit|aac|flac|opus|5\.1|2\.0|web-?dl|bluray|bdrip)\b`)
)

// InferEpisode extracts an episode number from a subtitle filename.
// Returns 0 when no episode can be inferred, which is the normal case for
// movies and batch archives.
func InferEpisode(name string) int {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	for _, p := range []*regexp.Regexp{seasonEpisodePattern, crossEpisodePattern, epWordPattern, bareEPattern} {
		if m := p.FindStringSubmatch(stem); m != nil {
			if ep, err := strconv.Atoi(m[1]); err == nil && ep > 0 {
				return ep
			}
		}
	}

	// Fallback: the last standalone one-or-two digit number in the cleaned
	// stem. Release tags and resolutions are stripped first so "1080" or a
	// CRC inside brackets never wins.
	cleaned := bracketGroupPattern.ReplaceAllString(stem, " ")
	cleaned = noiseTokenPattern.ReplaceAllString(cleaned, " ")

	var episode int
	for _, m := range trailingNumPattern.FindAllStringSubmatch(cleaned, -1) {
		if ep, err := strconv.Atoi(m[1]); err == nil && ep > 0 {
			episode = ep
		}
	}
	return episode
}

// batchPattern marks filenames that bundle a whole season or series.
var batchPattern = regexp.MustCompile(`(?i)\b(?:batch|complete|vol(?:ume)?[ ._]?\d*)\b`)

// IsBatch reports whether the filename advertises a multi-episode pack, so a
// number in it ("Vol 2") must not be read as an episode. An archive extension
// alone is not a batch marker: "Show.S01E05.zip" holds one episode.
func IsBatch(name string) bool {
	return batchPattern.MatchString(name)
}

// languageTags maps filename language tokens to ISO 639-2/3 codes.
var languageTags = map[string]string{
	"ja": "jpn", "jp": "jpn", "jpn": "jpn", "japanese": "jpn",
	"en": "eng", "eng": "eng", "english": "eng",
	"es": "spa", "spa": "spa", "spanish": "spa",
	"fr": "fra", "fra": "fra", "fre": "fra", "french": "fra",
	"de": "deu", "deu": "deu", "ger": "deu", "german": "deu",
	"pt": "por", "por": "por", "portuguese": "por",
	"zh": "zho", "zho": "zho", "chi": "zho", "chinese": "zho",
	"ko": "kor", "kor": "kor", "korean": "kor",
	"it": "ita", "ita": "ita", "italian": "ita",
	"ru": "rus", "rus": "rus", "russian": "rus",
	"ar": "ara", "ara": "ara", "arabic": "ara",
}

var tokenSplitPattern = regexp.MustCompile(`[^0-9A-Za-z]+`)

// InferLanguage extracts a language code from a subtitle filename, looking at
// the trailing tokens before the extension where language tags conventionally
// sit ("show.05.ja.srt", "Show - 05 [eng].ass"). Returns fallback when no tag
// is recognized.
func InferLanguage(name, fallback string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	tokens := tokenSplitPattern.Split(strings.ToLower(stem), -1)

	// Only the last few tokens: a leading word like "en" in a title must not
	// be read as a tag.
	const window = 3
	start := len(tokens) - window
	if start < 0 {
		start = 0
	}
	for i := len(tokens) - 1; i >= start; i-- {
		if code, ok := languageTags[tokens[i]]; ok {
			return code
		}
	}
	return fallback
}
