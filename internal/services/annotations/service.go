package annotations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/killallgit/ieeg-clips/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new annotation service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// CreateAnnotation creates a new annotation with validation
func (s *ServiceImpl) CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	if annotation.Label == "" {
		return fmt.Errorf("label is required")
	}
	if annotation.DatasetID == "" {
		return fmt.Errorf("dataset ID is required")
	}
	if annotation.Start < 0 {
		return fmt.Errorf("start offset must not be negative")
	}
	// Instants (start == end) are allowed; inverted intervals are not.
	if annotation.End < annotation.Start {
		return fmt.Errorf("end offset must not precede start offset")
	}
	if annotation.Source == "" {
		annotation.Source = models.SourcePortal
	}

	// Generate UUID if not provided
	if annotation.UUID == "" {
		annotation.UUID = uuid.New().String()
	}

	return s.repository.CreateAnnotation(ctx, annotation)
}

// ReplaceSourceAnnotations swaps out a dataset's annotations for one source
func (s *ServiceImpl) ReplaceSourceAnnotations(ctx context.Context, datasetID string, source models.AnnotationSource, annotations []models.Annotation) error {
	if datasetID == "" {
		return fmt.Errorf("dataset ID is required")
	}

	for i := range annotations {
		if annotations[i].Label == "" {
			return fmt.Errorf("annotation %d: label is required", i)
		}
		if annotations[i].End < annotations[i].Start {
			return fmt.Errorf("annotation %d: end offset must not precede start offset", i)
		}
		annotations[i].DatasetID = datasetID
		annotations[i].Source = source
		if annotations[i].UUID == "" {
			annotations[i].UUID = uuid.New().String()
		}
	}

	if err := s.repository.DeleteAnnotationsByDatasetID(ctx, datasetID, source); err != nil {
		return err
	}
	return s.repository.CreateAnnotations(ctx, annotations)
}

// GetMergedAnnotations returns deduplicated, precedence-merged annotations
func (s *ServiceImpl) GetMergedAnnotations(ctx context.Context, datasetID string) ([]models.Annotation, error) {
	anns, err := s.repository.GetAnnotationsByDatasetID(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	return Merge(anns), nil
}
