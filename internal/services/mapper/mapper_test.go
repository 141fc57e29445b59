package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/ieeg-clips/internal/models"
)

func windowClips(n int, width float64) []models.Clip {
	clips := make([]models.Clip, n)
	for i := range clips {
		clips[i] = models.Clip{
			DatasetID: "HUP100_D1",
			Index:     i,
			Start:     float64(i) * width,
			End:       float64(i+1) * width,
		}
	}
	return clips
}

func TestApply_SeizureLabelsOnlyOverlappingClip(t *testing.T) {
	clips := windowClips(3, 60)
	annotations := []models.Annotation{
		{DatasetID: "HUP100_D1", Label: models.LabelSeizure, Start: 100, End: 110, Source: models.SourcePortal},
	}

	result := Apply(clips, annotations)
	require.Len(t, result, 3)

	assert.Empty(t, result[0].Labels, "clip [0,60) does not overlap [100,110)")
	assert.Equal(t, models.LabelSet{"seizure"}, result[1].Labels, "clip [60,120) overlaps [100,110)")
	assert.Empty(t, result[2].Labels, "clip [120,180) does not overlap [100,110)")
}

func TestApply_HalfOpenBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		annotation models.Annotation
		wantByClip [3]models.LabelSet
	}{
		{
			name:       "annotation ending at clip start does not attach",
			annotation: models.Annotation{Label: "spike", Start: 30, End: 60},
			wantByClip: [3]models.LabelSet{{"spike"}, nil, nil},
		},
		{
			name:       "annotation starting at clip end attaches to the next clip",
			annotation: models.Annotation{Label: "spike", Start: 60, End: 65},
			wantByClip: [3]models.LabelSet{nil, {"spike"}, nil},
		},
		{
			name:       "annotation spanning a boundary attaches to both clips",
			annotation: models.Annotation{Label: "spike", Start: 55, End: 65},
			wantByClip: [3]models.LabelSet{{"spike"}, {"spike"}, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Apply(windowClips(3, 60), []models.Annotation{tt.annotation})
			for i, want := range tt.wantByClip {
				assert.Equal(t, want, result[i].Labels, "clip %d", i)
			}
		})
	}
}

func TestApply_InstantBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		at        float64
		wantIndex int
	}{
		{name: "instant at clip start belongs to that clip", at: 60, wantIndex: 1},
		{name: "instant just before clip end stays in the clip", at: 119.999, wantIndex: 1},
		{name: "instant at recording start", at: 0, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clips := windowClips(3, 60)
			result := Apply(clips, []models.Annotation{
				{Label: "marker", Start: tt.at, End: tt.at},
			})
			for i := range result {
				if i == tt.wantIndex {
					assert.Equal(t, models.LabelSet{"marker"}, result[i].Labels)
				} else {
					assert.Empty(t, result[i].Labels, "clip %d", i)
				}
			}
		})
	}
}

func TestApply_LabelUnionSortedAndDeduplicated(t *testing.T) {
	clips := windowClips(1, 60)
	annotations := []models.Annotation{
		{Label: "spike", Start: 10, End: 20, Source: models.SourcePortal},
		{Label: models.LabelSeizure, Start: 5, End: 15, Source: models.SourcePortal},
		{Label: "spike", Start: 30, End: 40, Source: models.SourceManualValidation},
		{Label: "artifact", Start: 50, End: 55, Source: models.SourceDerived},
	}

	result := Apply(clips, annotations)
	require.Len(t, result, 1)
	assert.Equal(t, models.LabelSet{"artifact", "seizure", "spike"}, result[0].Labels)
}

func TestApply_LongAnnotationReachesLaterClips(t *testing.T) {
	// An annotation that starts in the first window and covers the whole
	// recording must label every clip, not just the one it starts in.
	clips := windowClips(4, 60)
	annotations := []models.Annotation{
		{Label: "status", Start: 5, End: 300},
		{Label: "spike", Start: 130, End: 131},
	}

	result := Apply(clips, annotations)
	for i := range result {
		assert.Contains(t, result[i].Labels, "status", "clip %d", i)
	}
	assert.Equal(t, models.LabelSet{"spike", "status"}, result[2].Labels)
}

func TestApply_NoAnnotations(t *testing.T) {
	clips := windowClips(2, 60)
	result := Apply(clips, nil)
	require.Len(t, result, 2)
	for i := range result {
		assert.Empty(t, result[i].Labels)
	}
}

func TestApply_Deterministic(t *testing.T) {
	annotations := []models.Annotation{
		{Label: "b", Start: 10, End: 20},
		{Label: "a", Start: 10, End: 20},
		{Label: "c", Start: 0, End: 120},
	}
	first := Apply(windowClips(2, 60), annotations)

	// Reversed insertion order must not change the output.
	reversed := []models.Annotation{annotations[2], annotations[1], annotations[0]}
	second := Apply(windowClips(2, 60), reversed)

	assert.Equal(t, first, second)
}
