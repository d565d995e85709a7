package history

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
)

const archiveVersion = 1

// archiveData is the gob payload of an archive file. Archives are reports:
// they hold summaries only and cannot restore an engine.
type archiveData struct {
	Version   int
	Summaries []GenerationSummary
}

// WriteArchive writes summaries to a gzip-compressed gob file.
func WriteArchive(filePath string, summaries []GenerationSummary) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(gzWriter).Encode(archiveData{
		Version:   archiveVersion,
		Summaries: summaries,
	}); err != nil {
		_ = gzWriter.Close()
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush archive '%s': %w", filePath, err)
	}
	return file.Close()
}

// ReadArchive reads summaries written by WriteArchive.
func ReadArchive(filePath string) ([]GenerationSummary, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for archive: %w", err)
	}
	defer gzReader.Close()

	var data archiveData
	if err := gob.NewDecoder(gzReader).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	if data.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", data.Version)
	}
	return data.Summaries, nil
}
