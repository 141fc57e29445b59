package recordings

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new recording service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// SaveRecording validates and upserts portal metadata for a dataset
func (s *ServiceImpl) SaveRecording(ctx context.Context, recording *models.Recording) error {
	if recording.DatasetID == "" {
		return fmt.Errorf("dataset ID is required")
	}
	if recording.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}
	if recording.NumSamples < 0 {
		return fmt.Errorf("sample count must not be negative")
	}
	if recording.SegmentIndex <= 0 {
		recording.SegmentIndex = 1
	}

	return s.repository.UpsertRecording(ctx, recording)
}

// GetRecording returns the metadata for one dataset
func (s *ServiceImpl) GetRecording(ctx context.Context, datasetID string) (*models.Recording, error) {
	return s.repository.GetRecordingByDatasetID(ctx, datasetID)
}

// ListRecordings returns all known recordings
func (s *ServiceImpl) ListRecordings(ctx context.Context) ([]models.Recording, error) {
	return s.repository.ListRecordings(ctx)
}

// OverrideStartTime applies a manually validated start time. Manual
// validation corrects the portal, so the override always wins.
func (s *ServiceImpl) OverrideStartTime(ctx context.Context, datasetID string, start time.Time) error {
	recording, err := s.repository.GetRecordingByDatasetID(ctx, datasetID)
	if err != nil {
		return err
	}

	recording.StartTime = &start
	return s.repository.UpsertRecording(ctx, recording)
}
