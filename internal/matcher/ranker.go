package matcher

import (
	"sort"

	"jimakufetch/internal/models"
	"jimakufetch/internal/parser"
)

// Scoring weights. The identifier bonus strictly dominates the best possible
// non-identifier total (titleWeight + episodeBonus + languageBonus = 180), so
// an identifier-matched pair always outranks every title-only pair.
const (
	identifierBonus         = 1000.0
	titleWeight             = 100.0 // multiplied by similarity in [0, 1]
	episodeBonus            = 50.0
	batchPenalty            = 20.0 // file names no episode; may still be the right archive
	episodeMismatchPenalty  = 60.0 // file names a different episode; positively wrong
	languageBonus           = 30.0
	languageMismatchPenalty = 25.0
	unverifiedPenalty       = 5.0

	// minTitleSignal is the similarity floor below which a pair without an
	// identifier match has no plausible relation to the query and is
	// excluded rather than ranked last.
	minTitleSignal = 0.3
)

// Ranker scores catalog candidates against a media identity.
type Ranker interface {
	// Rank returns one descriptor per plausible (entry, file) pair, ordered
	// by descending score. It is a pure function of its inputs: identical
	// inputs always produce identical output.
	Rank(identity models.MediaIdentity, candidates []models.EntryFiles) []models.Descriptor
}

// ranker implements Ranker.
type ranker struct{}

// NewRanker creates the standard Ranker.
func NewRanker() Ranker {
	return &ranker{}
}

func (r *ranker) Rank(identity models.MediaIdentity, candidates []models.EntryFiles) []models.Descriptor {
	type scored struct {
		descriptor models.Descriptor
		entryID    int64
		modified   int64
	}
	var pairs []scored

	for _, candidate := range candidates {
		entry := candidate.Entry
		idMatch := entry.MatchesIdentifier(identity)
		titleScore := bestTitleSimilarity(identity, entry)

		// No identifier and no meaningful title overlap: the entry has no
		// plausible relation to the query.
		if !idMatch && titleScore < minTitleSignal {
			continue
		}

		entryScore := titleWeight * titleScore
		if idMatch {
			entryScore += identifierBonus
		}
		if entry.Flags.Unverified {
			entryScore -= unverifiedPenalty
		}

		for _, file := range candidate.Files {
			score := entryScore + fileScore(identity, file)
			// A file naming no episode may still be the right archive to
			// unpack; the descriptor carries the requested episode so
			// extraction knows which member to pick.
			episode := file.Episode
			if episode == 0 && identity.Kind == models.Episode {
				episode = identity.Episode
			}
			pairs = append(pairs, scored{
				descriptor: models.Descriptor{
					EntryID:   entry.ID,
					EntryName: entry.Name,
					Filename:  file.Name,
					URL:       file.URL,
					Score:     score,
					Language:  file.Language,
					Episode:   episode,
				},
				entryID:  entry.ID,
				modified: file.LastModified.UnixNano(),
			})
		}
	}

	// Equal scores prefer the most recently observed catalog id, then the
	// newest file. Higher id ≈ more recently added, thus likelier better
	// quality — a documented heuristic, not a guarantee.
	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.descriptor.Score != b.descriptor.Score {
			return a.descriptor.Score > b.descriptor.Score
		}
		if a.entryID != b.entryID {
			return a.entryID > b.entryID
		}
		if a.modified != b.modified {
			return a.modified > b.modified
		}
		return a.descriptor.Filename < b.descriptor.Filename
	})

	descriptors := make([]models.Descriptor, len(pairs))
	for i, pair := range pairs {
		descriptors[i] = pair.descriptor
	}
	return descriptors
}

// bestTitleSimilarity compares the identity's titles against the entry's
// display and alternate titles, taking the maximum.
func bestTitleSimilarity(identity models.MediaIdentity, entry models.Entry) float64 {
	queryTitles := []string{identity.Title}
	if identity.OriginalTitle != "" {
		queryTitles = append(queryTitles, identity.OriginalTitle)
	}
	entryTitles := append([]string{entry.Name}, entry.AlternateTitles()...)

	best := 0.0
	for _, query := range queryTitles {
		for _, title := range entryTitles {
			if sim := parser.TitleSimilarity(query, title); sim > best {
				best = sim
			}
		}
	}
	return best
}

// fileScore applies the per-file episode and language terms. Episode terms
// are skipped entirely for movies.
func fileScore(identity models.MediaIdentity, file models.File) float64 {
	score := 0.0

	if identity.Kind == models.Episode && identity.Episode != 0 {
		switch file.Episode {
		case identity.Episode:
			score += episodeBonus
		case 0:
			score -= batchPenalty
		default:
			score -= episodeMismatchPenalty
		}
	}

	if identity.Language != "" {
		if file.Language == identity.Language {
			score += languageBonus
		} else {
			score -= languageMismatchPenalty
		}
	}

	return score
}
