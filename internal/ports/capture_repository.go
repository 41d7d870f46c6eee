package ports

import (
	"context"

	"github.com/bft-labs/netsdr/internal/domain"
)

// CaptureRepository persists capture records.
type CaptureRepository interface {
	// Save stores the record for the capture written to record.Path.
	Save(ctx context.Context, record domain.CaptureRecord) error

	// Load returns the record previously saved for the capture at path.
	Load(ctx context.Context, path string) (domain.CaptureRecord, error)
}
