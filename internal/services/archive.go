package services

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"

	"jimakufetch/internal/apperrors"
	"jimakufetch/internal/config"
	"jimakufetch/internal/models"
	"jimakufetch/internal/parser"
)

// innerFile is one member of a downloaded archive.
type innerFile struct {
	name    string
	content []byte
}

// extractFromArchive unpacks a downloaded archive and selects the single
// best-matching inner subtitle for the descriptor's episode and language.
func extractFromArchive(descriptor models.Descriptor, content []byte) (*models.DownloadResult, error) {
	members, err := listArchive(descriptor.Filename, content)
	if err != nil {
		return nil, &apperrors.ErrCorruptPayload{Filename: descriptor.Filename, Reason: err.Error()}
	}

	selected, err := selectInnerFile(descriptor, members)
	if err != nil {
		return nil, err
	}

	return &models.DownloadResult{
		Filename:    selected.name,
		Content:     selected.content,
		ContentType: contentTypeFromFilename(selected.name),
	}, nil
}

// listArchive reads every regular file out of a zip, rar or 7z archive.
func listArchive(filename string, content []byte) ([]innerFile, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return listZip(content)
	case ".rar":
		return listRar(content)
	case ".7z":
		return listSevenZip(content)
	default:
		// Content-type said archive but the name did not; zip is the only
		// format the catalog serves unnamed.
		return listZip(content)
	}
}

func listZip(content []byte) ([]innerFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP archive: %w", err)
	}

	var members []innerFile
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in ZIP: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from ZIP: %w", file.Name, err)
		}
		members = append(members, innerFile{name: filepath.Base(file.Name), content: data})
	}
	return members, nil
}

func listRar(content []byte) ([]innerFile, error) {
	reader, err := rardecode.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open RAR archive: %w", err)
	}

	var members []innerFile
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return members, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read RAR archive: %w", err)
		}
		if header.IsDir {
			continue
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from RAR: %w", header.Name, err)
		}
		members = append(members, innerFile{name: filepath.Base(header.Name), content: data})
	}
}

func listSevenZip(content []byte) ([]innerFile, error) {
	reader, err := sevenzip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open 7z archive: %w", err)
	}

	var members []innerFile
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in 7z: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from 7z: %w", file.Name, err)
		}
		members = append(members, innerFile{name: filepath.Base(file.Name), content: data})
	}
	return members, nil
}

// selectInnerFile picks the single archive member matching the descriptor's
// episode and language, using the same filename heuristics the ranker uses.
// Members naming a different episode are excluded outright; a tie among the
// remaining best candidates is ambiguous and surfaces as an error rather
// than a guess.
func selectInnerFile(descriptor models.Descriptor, members []innerFile) (*innerFile, error) {
	logger := config.GetLogger()

	type candidate struct {
		file  *innerFile
		score int
	}
	var candidates []candidate

	for i := range members {
		member := &members[i]
		if !parser.HasSubtitleExtension(member.name) || parser.IsWhisperTagged(member.name) {
			continue
		}

		score := 0
		episode := parser.InferEpisode(member.name)
		if descriptor.Episode != 0 {
			switch episode {
			case descriptor.Episode:
				score += 100
			case 0:
				score += 10
			default:
				continue // positively the wrong episode
			}
		}
		if descriptor.Language != "" && parser.InferLanguage(member.name, models.DefaultLanguage) == descriptor.Language {
			score += 5
		}
		candidates = append(candidates, candidate{file: member, score: score})
	}

	if len(candidates) == 0 {
		return nil, &apperrors.ErrNoSubtitleInArchive{
			Filename:  descriptor.Filename,
			Episode:   descriptor.Episode,
			FileCount: len(members),
		}
	}

	best := candidates[0]
	ties := 1
	for _, c := range candidates[1:] {
		switch {
		case c.score > best.score:
			best = c
			ties = 1
		case c.score == best.score:
			ties++
		}
	}
	if ties > 1 {
		logger.Warn().
			Str("archive", descriptor.Filename).
			Int("candidates", ties).
			Msg("Multiple equally plausible subtitles in archive")
		return nil, &apperrors.ErrAmbiguousArchive{Filename: descriptor.Filename, Candidates: ties}
	}

	return best.file, nil
}
