package annotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/ieeg-clips/internal/models"
	"gorm.io/gorm"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new annotation repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateAnnotation creates a new annotation in the database
func (r *RepositoryImpl) CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	if err := r.db.WithContext(ctx).Create(annotation).Error; err != nil {
		return fmt.Errorf("creating annotation: %w", err)
	}
	return nil
}

// CreateAnnotations creates a batch of annotations
func (r *RepositoryImpl) CreateAnnotations(ctx context.Context, annotations []models.Annotation) error {
	if len(annotations) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&annotations).Error; err != nil {
		return fmt.Errorf("creating annotations: %w", err)
	}
	return nil
}

// GetAnnotationByUUID retrieves an annotation by its UUID
func (r *RepositoryImpl) GetAnnotationByUUID(ctx context.Context, uuid string) (*models.Annotation, error) {
	var annotation models.Annotation
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&annotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annotation not found")
		}
		return nil, fmt.Errorf("getting annotation: %w", err)
	}
	return &annotation, nil
}

// GetAnnotationsByDatasetID retrieves all annotations for a dataset
func (r *RepositoryImpl) GetAnnotationsByDatasetID(ctx context.Context, datasetID string) ([]models.Annotation, error) {
	var annotations []models.Annotation
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("start_offset_seconds ASC, end_offset_seconds ASC, label ASC").
		Find(&annotations).Error; err != nil {
		return nil, fmt.Errorf("getting annotations for dataset: %w", err)
	}
	return annotations, nil
}

// DeleteAnnotationsByDatasetID deletes a dataset's annotations from one source
func (r *RepositoryImpl) DeleteAnnotationsByDatasetID(ctx context.Context, datasetID string, source models.AnnotationSource) error {
	if err := r.db.WithContext(ctx).
		Where("dataset_id = ? AND source = ?", datasetID, source).
		Delete(&models.Annotation{}).Error; err != nil {
		return fmt.Errorf("deleting annotations: %w", err)
	}
	return nil
}
