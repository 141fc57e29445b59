package clips

import (
	"context"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// Repository defines the interface for clip data access
type Repository interface {
	// ReplaceClips atomically swaps a dataset's clip sequence. Clips are
	// regenerated fresh on every run; there is no per-clip update path.
	ReplaceClips(ctx context.Context, datasetID string, clips []models.Clip) error

	// Read operations
	GetClipsByDatasetID(ctx context.Context, datasetID string) ([]models.Clip, error)
	GetInterictalClips(ctx context.Context, datasetID string) ([]models.Clip, error)
	CountClips(ctx context.Context, datasetID string) (int64, error)
}

// Service defines the interface for clip business logic
type Service interface {
	// StoreGeneration persists the outcome of one dataset pipeline run
	StoreGeneration(ctx context.Context, datasetID string, clips []models.Clip) error

	// GetClips returns a dataset's full clip sequence in index order
	GetClips(ctx context.Context, datasetID string) ([]models.Clip, error)

	// GetInterictalClips returns only the seizure-free subset
	GetInterictalClips(ctx context.Context, datasetID string) ([]models.Clip, error)
}
