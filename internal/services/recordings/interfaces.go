package recordings

import (
	"context"
	"time"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// Repository defines the interface for recording metadata access
type Repository interface {
	UpsertRecording(ctx context.Context, recording *models.Recording) error
	GetRecordingByDatasetID(ctx context.Context, datasetID string) (*models.Recording, error)
	ListRecordings(ctx context.Context) ([]models.Recording, error)
	ListRecordingsByRecordID(ctx context.Context, recordID string) ([]models.Recording, error)
}

// Service defines the interface for recording business logic
type Service interface {
	// SaveRecording validates and upserts portal metadata for a dataset
	SaveRecording(ctx context.Context, recording *models.Recording) error

	// GetRecording returns the metadata for one dataset
	GetRecording(ctx context.Context, datasetID string) (*models.Recording, error)

	// ListRecordings returns all known recordings
	ListRecordings(ctx context.Context) ([]models.Recording, error)

	// OverrideStartTime applies a manually validated start time, which
	// takes precedence over whatever the portal reported
	OverrideStartTime(ctx context.Context, datasetID string, start time.Time) error
}
