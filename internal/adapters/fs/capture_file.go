package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/netsdr/internal/domain"
)

const recordSuffix = ".json"

// CaptureFileRepository implements ports.CaptureRepository by writing a JSON
// sidecar next to each capture file.
type CaptureFileRepository struct{}

// NewCaptureFileRepository creates a CaptureFileRepository.
func NewCaptureFileRepository() *CaptureFileRepository {
	return &CaptureFileRepository{}
}

// RecordPath returns the sidecar path for the capture at path.
func RecordPath(path string) string {
	return path + recordSuffix
}

// Load reads the record saved for the capture at path.
func (r *CaptureFileRepository) Load(ctx context.Context, path string) (domain.CaptureRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.CaptureRecord{}, err
	}

	data, err := os.ReadFile(RecordPath(path))
	if err != nil {
		return domain.CaptureRecord{}, err
	}

	var record domain.CaptureRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.CaptureRecord{}, err
	}
	return record, nil
}

// Save writes the record atomically. Each call writes its own temp file in
// the destination directory and renames it into place, so concurrent saves
// of the same record leave one complete file.
func (r *CaptureFileRepository) Save(ctx context.Context, record domain.CaptureRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := RecordPath(record.Path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if err := writeTemp(tmp, data); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// writeTemp fills f with data, widens CreateTemp's 0600 to 0644 and closes it.
func writeTemp(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
