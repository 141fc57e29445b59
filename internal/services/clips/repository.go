package clips

import (
	"context"
	"fmt"

	"github.com/killallgit/ieeg-clips/internal/models"
	"gorm.io/gorm"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new clip repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// ReplaceClips atomically swaps a dataset's clip sequence
func (r *RepositoryImpl) ReplaceClips(ctx context.Context, datasetID string, clips []models.Clip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", datasetID).Delete(&models.Clip{}).Error; err != nil {
			return fmt.Errorf("deleting previous clips: %w", err)
		}
		if len(clips) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&clips, 500).Error; err != nil {
			return fmt.Errorf("creating clips: %w", err)
		}
		return nil
	})
}

// GetClipsByDatasetID retrieves a dataset's clips in index order
func (r *RepositoryImpl) GetClipsByDatasetID(ctx context.Context, datasetID string) ([]models.Clip, error) {
	var clips []models.Clip
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("clip_index ASC").
		Find(&clips).Error; err != nil {
		return nil, fmt.Errorf("getting clips for dataset: %w", err)
	}
	return clips, nil
}

// GetInterictalClips retrieves only the interictal clips of a dataset
func (r *RepositoryImpl) GetInterictalClips(ctx context.Context, datasetID string) ([]models.Clip, error) {
	var clips []models.Clip
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ? AND interictal = ?", datasetID, true).
		Order("clip_index ASC").
		Find(&clips).Error; err != nil {
		return nil, fmt.Errorf("getting interictal clips: %w", err)
	}
	return clips, nil
}

// CountClips counts a dataset's stored clips
func (r *RepositoryImpl) CountClips(ctx context.Context, datasetID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Clip{}).
		Where("dataset_id = ?", datasetID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting clips: %w", err)
	}
	return count, nil
}
