package clips

import (
	"context"
	"fmt"
	"sort"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new clips service
func NewService(repository Repository) Service {
	return &ServiceImpl{
		repository: repository,
	}
}

// StoreGeneration persists the outcome of one dataset pipeline run
func (s *ServiceImpl) StoreGeneration(ctx context.Context, datasetID string, clips []models.Clip) error {
	if datasetID == "" {
		return fmt.Errorf("dataset ID is required")
	}

	// The pipeline emits clips in index order already; sorting again here
	// keeps persistence deterministic even for hand-built sequences.
	sorted := make([]models.Clip, len(clips))
	copy(sorted, clips)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for i := range sorted {
		if sorted[i].DatasetID != datasetID {
			return fmt.Errorf("clip %d belongs to dataset %q, not %q", i, sorted[i].DatasetID, datasetID)
		}
	}

	return s.repository.ReplaceClips(ctx, datasetID, sorted)
}

// GetClips returns a dataset's full clip sequence in index order
func (s *ServiceImpl) GetClips(ctx context.Context, datasetID string) ([]models.Clip, error) {
	return s.repository.GetClipsByDatasetID(ctx, datasetID)
}

// GetInterictalClips returns only the seizure-free subset
func (s *ServiceImpl) GetInterictalClips(ctx context.Context, datasetID string) ([]models.Clip, error) {
	return s.repository.GetInterictalClips(ctx, datasetID)
}
