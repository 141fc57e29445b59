package diurnal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/ieeg-clips/internal/models"
)

func localTime(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(2024, 3, 15, hour, minute, 0, 0, loc)
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		want   models.DiurnalClass
	}{
		{name: "day window start is day", hour: 6, minute: 0, want: models.DiurnalDay},
		{name: "just before day start is night", hour: 5, minute: 59, want: models.DiurnalNight},
		{name: "midday is day", hour: 12, minute: 30, want: models.DiurnalDay},
		{name: "just before day end is day", hour: 19, minute: 59, want: models.DiurnalDay},
		{name: "day window end is night", hour: 20, minute: 0, want: models.DiurnalNight},
		{name: "midnight is night", hour: 0, minute: 0, want: models.DiurnalNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(localTime(t, tt.hour, tt.minute), DefaultWindow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyClip_UnknownWithoutAbsoluteStart(t *testing.T) {
	clip := &models.Clip{Start: 0, End: 60}
	assert.Equal(t, models.DiurnalUnknown, ClassifyClip(clip, DefaultWindow))
}

func TestClassifyClip_UsesAbsoluteStart(t *testing.T) {
	at := localTime(t, 14, 0)
	clip := &models.Clip{Start: 0, End: 60, AbsoluteStart: &at}
	assert.Equal(t, models.DiurnalDay, ClassifyClip(clip, DefaultWindow))

	night := localTime(t, 2, 0)
	clip.AbsoluteStart = &night
	assert.Equal(t, models.DiurnalNight, ClassifyClip(clip, DefaultWindow))
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("06:00", "20:00")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow, w)

	w, err = ParseWindow("07:30", "21:15")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 7*60 + 30, End: 21*60 + 15}, w)
}

func TestParseWindow_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "missing minutes", start: "06", end: "20:00"},
		{name: "bad hour", start: "25:00", end: "20:00"},
		{name: "bad minute", start: "06:61", end: "20:00"},
		{name: "non-numeric", start: "six:00", end: "20:00"},
		{name: "start after end", start: "20:00", end: "06:00"},
		{name: "start equals end", start: "12:00", end: "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWindow(tt.start, tt.end)
			assert.Error(t, err)
		})
	}
}
