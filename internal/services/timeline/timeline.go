// Package timeline derives absolute time coordinates for a recording from
// its portal metadata.
package timeline

import (
	"fmt"
	"time"

	"github.com/killallgit/ieeg-clips/internal/models"
	apperrors "github.com/killallgit/ieeg-clips/pkg/errors"
)

// Timeline maps offsets in seconds to absolute timestamps for one
// recording. It is immutable after Resolve.
type Timeline struct {
	datasetID string
	duration  float64
	start     *time.Time
	loc       *time.Location
}

// Resolve validates the recording metadata and builds its timeline. A
// non-positive sample rate or negative sample count is fatal for the
// dataset.
func Resolve(rec *models.Recording) (*Timeline, error) {
	if rec.SampleRate <= 0 {
		return nil, apperrors.InvalidMetadata(rec.DatasetID,
			fmt.Sprintf("sample rate must be positive, got %g", rec.SampleRate))
	}
	if rec.NumSamples < 0 {
		return nil, apperrors.InvalidMetadata(rec.DatasetID,
			fmt.Sprintf("sample count must not be negative, got %d", rec.NumSamples))
	}

	t := &Timeline{
		datasetID: rec.DatasetID,
		duration:  rec.DurationSeconds(),
		start:     rec.StartTime,
	}

	// The zone is resolved eagerly so that every AbsoluteTime call is a
	// pure arithmetic mapping. A bad zone name is recoverable: offsets
	// still work, only absolute timestamps become unresolvable.
	if rec.Timezone != "" {
		loc, err := time.LoadLocation(rec.Timezone)
		if err == nil {
			t.loc = loc
		}
	}

	return t, nil
}

// Duration returns the recording length in seconds.
func (t *Timeline) Duration() float64 {
	return t.duration
}

// HasAbsoluteTime reports whether absolute timestamps can be resolved.
func (t *Timeline) HasAbsoluteTime() bool {
	return t.start != nil
}

// AbsoluteTime maps an offset in seconds to an absolute timestamp. Pure
// and monotonic in offset. Returns a timestamp-resolution error when the
// recording has no start time.
func (t *Timeline) AbsoluteTime(offsetSeconds float64) (time.Time, error) {
	if t.start == nil {
		return time.Time{}, apperrors.TimestampResolution(t.datasetID,
			"recording has no resolvable start time")
	}

	ts := t.start.Add(time.Duration(offsetSeconds * float64(time.Second)))
	if t.loc != nil {
		ts = ts.In(t.loc)
	}
	return ts, nil
}
