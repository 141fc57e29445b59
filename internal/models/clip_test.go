package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSet_ValueScanRoundTrip(t *testing.T) {
	labels := LabelSet{"seizure", "spike"}

	value, err := labels.Value()
	require.NoError(t, err)

	var scanned LabelSet
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, labels, scanned)
}

func TestLabelSet_NilValue(t *testing.T) {
	var labels LabelSet
	value, err := labels.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	var scanned LabelSet
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestLabelSet_ScanRejectsNonBytes(t *testing.T) {
	var labels LabelSet
	assert.Error(t, labels.Scan(42))
}

func TestLabelSet_Contains(t *testing.T) {
	labels := LabelSet{"artifact", "seizure"}
	assert.True(t, labels.Contains("seizure"))
	assert.False(t, labels.Contains("spike"))
	assert.False(t, LabelSet(nil).Contains("seizure"))
}

func TestAnnotation_Overlaps(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		winStart   float64
		winEnd     float64
		want       bool
	}{
		{name: "fully inside window", start: 70, end: 80, winStart: 60, winEnd: 120, want: true},
		{name: "spans window start", start: 50, end: 70, winStart: 60, winEnd: 120, want: true},
		{name: "spans window end", start: 110, end: 130, winStart: 60, winEnd: 120, want: true},
		{name: "contains window", start: 0, end: 200, winStart: 60, winEnd: 120, want: true},
		{name: "ends at window start", start: 40, end: 60, winStart: 60, winEnd: 120, want: false},
		{name: "starts at window end", start: 120, end: 140, winStart: 60, winEnd: 120, want: false},
		{name: "instant at window start", start: 60, end: 60, winStart: 60, winEnd: 120, want: true},
		{name: "instant inside window", start: 90, end: 90, winStart: 60, winEnd: 120, want: true},
		{name: "instant at window end", start: 120, end: 120, winStart: 60, winEnd: 120, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Annotation{Label: "x", Start: tt.start, End: tt.end}
			assert.Equal(t, tt.want, a.Overlaps(tt.winStart, tt.winEnd))
		})
	}
}

func TestAnnotationSource_Priority(t *testing.T) {
	assert.Greater(t, SourceManualValidation.Priority(), SourcePortal.Priority())
	assert.Greater(t, SourcePortal.Priority(), SourceDerived.Priority())
	assert.Equal(t, 0, AnnotationSource("bogus").Priority())
}

func TestClip_DurationAndEvents(t *testing.T) {
	c := Clip{Start: 7320, End: 7325}
	assert.Equal(t, 5.0, c.DurationSeconds())
	assert.False(t, c.HasEvents())

	c.Labels = LabelSet{"seizure"}
	assert.True(t, c.HasEvents())
}
