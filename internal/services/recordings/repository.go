package recordings

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/ieeg-clips/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRecordingNotFound indicates no recording exists for the dataset ID
var ErrRecordingNotFound = errors.New("recording not found")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new recording repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// UpsertRecording creates or updates a recording keyed by dataset ID
func (r *RepositoryImpl) UpsertRecording(ctx context.Context, recording *models.Recording) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "dataset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"record_id", "hup_number", "segment_index", "sample_rate", "num_samples",
			"start_time", "timezone", "updated_at",
		}),
	}).Create(recording).Error
	if err != nil {
		return fmt.Errorf("upserting recording: %w", err)
	}
	return nil
}

// GetRecordingByDatasetID retrieves a recording by its dataset ID
func (r *RepositoryImpl) GetRecordingByDatasetID(ctx context.Context, datasetID string) (*models.Recording, error) {
	var recording models.Recording
	if err := r.db.WithContext(ctx).Where("dataset_id = ?", datasetID).First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordingNotFound
		}
		return nil, fmt.Errorf("getting recording: %w", err)
	}
	return &recording, nil
}

// ListRecordings returns all recordings ordered by dataset ID
func (r *RepositoryImpl) ListRecordings(ctx context.Context) ([]models.Recording, error) {
	var recordings []models.Recording
	if err := r.db.WithContext(ctx).Order("dataset_id ASC").Find(&recordings).Error; err != nil {
		return nil, fmt.Errorf("listing recordings: %w", err)
	}
	return recordings, nil
}

// ListRecordingsByRecordID returns a subject's recordings in segment order
func (r *RepositoryImpl) ListRecordingsByRecordID(ctx context.Context, recordID string) ([]models.Recording, error) {
	var recordings []models.Recording
	if err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("segment_index ASC, dataset_id ASC").
		Find(&recordings).Error; err != nil {
		return nil, fmt.Errorf("listing recordings for record: %w", err)
	}
	return recordings, nil
}
