package tiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/killallgit/ieeg-clips/pkg/errors"
)

func TestTile_PartialFinalWindow(t *testing.T) {
	clips, err := Tile("HUP123_phaseII", 125, 60)
	require.NoError(t, err)
	require.Len(t, clips, 3)

	assert.Equal(t, 0.0, clips[0].Start)
	assert.Equal(t, 60.0, clips[0].End)
	assert.Equal(t, 60.0, clips[1].Start)
	assert.Equal(t, 120.0, clips[1].End)
	assert.Equal(t, 120.0, clips[2].Start)
	assert.Equal(t, 125.0, clips[2].End)

	for i, clip := range clips {
		assert.Equal(t, i, clip.Index)
		assert.Equal(t, "HUP123_phaseII", clip.DatasetID)
	}
}

func TestTile_ExactMultiple(t *testing.T) {
	clips, err := Tile("ds", 120, 60)
	require.NoError(t, err)
	require.Len(t, clips, 2)
	assert.Equal(t, 60.0, clips[0].End)
	assert.Equal(t, 120.0, clips[1].End)
}

func TestTile_NoGapsNoOverlap(t *testing.T) {
	clips, err := Tile("ds", 3601.5, 60)
	require.NoError(t, err)
	require.Len(t, clips, 61)

	for i := 1; i < len(clips); i++ {
		assert.Equal(t, clips[i-1].End, clips[i].Start, "window %d must start where %d ends", i, i-1)
	}
	assert.Equal(t, 3601.5, clips[len(clips)-1].End)
}

func TestTile_ZeroDuration(t *testing.T) {
	clips, err := Tile("ds", 0, 60)
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestTile_NegativeDuration(t *testing.T) {
	clips, err := Tile("ds", -30, 60)
	require.NoError(t, err)
	assert.Empty(t, clips)
}

func TestTile_InvalidWindow(t *testing.T) {
	tests := []struct {
		name   string
		window float64
	}{
		{name: "zero window", window: 0},
		{name: "negative window", window: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clips, err := Tile("ds", 100, tt.window)
			assert.Nil(t, clips)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidWindow, apperrors.GetCode(err))
		})
	}
}

func TestTile_Deterministic(t *testing.T) {
	a, err := Tile("ds", 500, 60)
	require.NoError(t, err)
	b, err := Tile("ds", 500, 60)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
