// Package tiler partitions a recording's duration into fixed-width,
// non-overlapping analysis windows aligned to the recording start.
package tiler

import (
	"math"

	"github.com/killallgit/ieeg-clips/internal/models"
	apperrors "github.com/killallgit/ieeg-clips/pkg/errors"
)

// Tile produces ceil(duration/window) clips covering [0, duration) with
// half-open windows. The final clip is clipped to the duration and may be
// shorter than the window; there is no padding, overlap, or gap. The same
// inputs always yield the same sequence.
func Tile(datasetID string, durationSeconds, windowSeconds float64) ([]models.Clip, error) {
	if windowSeconds <= 0 {
		return nil, apperrors.InvalidWindow(windowSeconds)
	}
	// A non-positive duration tiles to nothing; negative values would
	// otherwise produce a negative window count.
	if durationSeconds <= 0 {
		return []models.Clip{}, nil
	}

	n := int(math.Ceil(durationSeconds / windowSeconds))
	clips := make([]models.Clip, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * windowSeconds
		end := start + windowSeconds
		if end > durationSeconds {
			end = durationSeconds
		}
		clips = append(clips, models.Clip{
			DatasetID: datasetID,
			Index:     i,
			Start:     start,
			End:       end,
			Diurnal:   models.DiurnalUnknown,
		})
	}

	return clips, nil
}
