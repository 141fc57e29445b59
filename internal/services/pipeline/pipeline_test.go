package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/ieeg-clips/internal/models"
	apperrors "github.com/killallgit/ieeg-clips/pkg/errors"
)

func recordingWithStart(t *testing.T, seconds float64, hour int) *models.Recording {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	start := time.Date(2024, 3, 15, hour, 0, 0, 0, loc)
	return &models.Recording{
		DatasetID:  "HUP100_phaseII_D1",
		SampleRate: 512,
		NumSamples: int64(seconds * 512),
		StartTime:  &start,
		Timezone:   "America/New_York",
	}
}

func TestRun_EndToEnd(t *testing.T) {
	// Two hours and five seconds of recording starting 08:00 local, one
	// seizure at [3600,3660). With a one-hour buffer everything before
	// 7260s is excluded.
	rec := recordingWithStart(t, 7325, 8)
	anns := []models.Annotation{
		{DatasetID: rec.DatasetID, Label: models.LabelSeizure, Start: 3600, End: 3660, Source: models.SourcePortal},
		{DatasetID: rec.DatasetID, Label: "spike", Start: 30, End: 35, Source: models.SourcePortal},
	}

	res, err := Run(rec, anns, DefaultConfig())
	require.NoError(t, err)

	// ceil(7325/60) = 123 windows, last one short.
	require.Len(t, res.Clips, 123)
	assert.Equal(t, 7320.0, res.Clips[122].Start)
	assert.Equal(t, 7325.0, res.Clips[122].End)

	assert.Equal(t, models.LabelSet{"spike"}, res.Clips[0].Labels)
	assert.Equal(t, models.LabelSet{"seizure"}, res.Clips[60].Labels)

	// Every clip starts between 08:00 and 10:05 local, so all are day.
	for i := range res.Clips {
		require.NotNil(t, res.Clips[i].AbsoluteStart)
		assert.Equal(t, models.DiurnalDay, res.Clips[i].Diurnal)
	}

	assert.Equal(t, len(res.Clips), len(res.Interictal)+len(res.Excluded))
	require.Len(t, res.Interictal, 2, "only the windows at 7260 and 7320 clear the buffer")
	assert.Equal(t, 121, res.Interictal[0].Index)
	assert.Equal(t, 122, res.Interictal[1].Index)

	for _, e := range res.Excluded {
		if e.Clip.Index == 60 {
			assert.Equal(t, models.ExclusionSeizureOverlap, e.Reason)
		} else {
			assert.Equal(t, models.ExclusionBufferOverlap, e.Reason)
		}
	}

	assert.True(t, res.Report.Clean())
}

func TestRun_AnomalyWithoutStartTime(t *testing.T) {
	rec := &models.Recording{
		DatasetID:  "HUP101_D1",
		SampleRate: 500,
		NumSamples: 62500,
	}

	res, err := Run(rec, nil, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Clips, 3)
	for i := range res.Clips {
		assert.Nil(t, res.Clips[i].AbsoluteStart)
		assert.Equal(t, models.DiurnalUnknown, res.Clips[i].Diurnal)
	}

	require.Len(t, res.Report.Anomalies, 1)
	assert.Equal(t, models.AnomalyTimestampResolution, res.Report.Anomalies[0].Code)
}

func TestRun_FatalMetadataError(t *testing.T) {
	rec := &models.Recording{DatasetID: "HUP102_D1", SampleRate: 0, NumSamples: 1000}

	res, err := Run(rec, nil, DefaultConfig())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidMetadata, apperrors.GetCode(err))
}

func TestRun_FatalWindowError(t *testing.T) {
	rec := recordingWithStart(t, 125, 8)
	cfg := DefaultConfig()
	cfg.WindowSeconds = 0

	res, err := Run(rec, nil, cfg)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidWindow, apperrors.GetCode(err))
}

func TestRun_EmptyRecording(t *testing.T) {
	rec := recordingWithStart(t, 0, 8)

	res, err := Run(rec, nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Clips)
	assert.Empty(t, res.Interictal)
	assert.Empty(t, res.Excluded)
	assert.True(t, res.Report.Clean())
}

func TestRun_Idempotent(t *testing.T) {
	anns := []models.Annotation{
		{Label: models.LabelSeizure, Start: 100, End: 110, Source: models.SourcePortal},
		{Label: "spike", Start: 20, End: 25, Source: models.SourceDerived},
	}

	makeRec := func() *models.Recording {
		start := time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)
		return &models.Recording{
			DatasetID:  "HUP103_D2",
			SampleRate: 512,
			NumSamples: int64(3725 * 512),
			StartTime:  &start,
		}
	}

	first, err := Run(makeRec(), anns, DefaultConfig())
	require.NoError(t, err)
	second, err := Run(makeRec(), anns, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_ManualValidationOverridesPortalSeizure(t *testing.T) {
	rec := recordingWithStart(t, 300, 8)
	cfg := DefaultConfig()
	cfg.BufferSeconds = 30

	anns := []models.Annotation{
		{Label: models.LabelSeizure, Start: 60, End: 120, Source: models.SourcePortal},
		{Label: models.LabelSeizure, Start: 70, End: 80, Source: models.SourceManualValidation},
	}

	res, err := Run(rec, anns, cfg)
	require.NoError(t, err)

	// The validated interval [70,80) replaces the portal's [60,120); with
	// a 30s buffer the exclusion zone is [40,110), so the clip at [120,180)
	// stays interictal even though the portal interval touched it.
	require.Len(t, res.Clips, 5)
	assert.Equal(t, models.LabelSet{"seizure"}, res.Clips[1].Labels)
	assert.Empty(t, res.Clips[2].Labels)

	var interictalIdx []int
	for _, c := range res.Interictal {
		interictalIdx = append(interictalIdx, c.Index)
	}
	assert.Equal(t, []int{2, 3, 4}, interictalIdx)
}
