package annotations

import (
	"context"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// Repository defines the interface for annotation data access
type Repository interface {
	// Create operations
	CreateAnnotation(ctx context.Context, annotation *models.Annotation) error
	CreateAnnotations(ctx context.Context, annotations []models.Annotation) error

	// Read operations
	GetAnnotationByUUID(ctx context.Context, uuid string) (*models.Annotation, error)
	GetAnnotationsByDatasetID(ctx context.Context, datasetID string) ([]models.Annotation, error)

	// Delete operations
	DeleteAnnotationsByDatasetID(ctx context.Context, datasetID string, source models.AnnotationSource) error
}

// Service defines the interface for annotation business logic
type Service interface {
	// CreateAnnotation validates and stores a single annotation
	CreateAnnotation(ctx context.Context, annotation *models.Annotation) error

	// ReplaceSourceAnnotations swaps out a dataset's annotations for one
	// source atomically (e.g. a fresh portal fetch or a new validation
	// sheet revision)
	ReplaceSourceAnnotations(ctx context.Context, datasetID string, source models.AnnotationSource, annotations []models.Annotation) error

	// GetMergedAnnotations returns the dataset's annotations after
	// deduplication and source-precedence merging
	GetMergedAnnotations(ctx context.Context, datasetID string) ([]models.Annotation, error)
}
