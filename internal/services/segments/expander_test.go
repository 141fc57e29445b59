package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/killallgit/ieeg-clips/pkg/errors"
)

func datasetIDs(rows []ExpandedRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.DatasetID
	}
	return ids
}

func TestExpand_RangeToken(t *testing.T) {
	rows, errs := Expand([]Row{
		{RecordID: "sub-RID0031", PortalName: "HUP123_phaseII_D1-D3", HUPNumber: "123"},
	})
	require.Empty(t, errs)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"HUP123_phaseII_D1",
		"HUP123_phaseII_D2",
		"HUP123_phaseII_D3",
	}, datasetIDs(rows))
	for i, row := range rows {
		assert.Equal(t, i+1, row.SegmentIndex)
		assert.Equal(t, "sub-RID0031", row.RecordID)
		assert.Equal(t, "123", row.HUPNumber)
	}
}

func TestExpand_ZeroPaddingPreserved(t *testing.T) {
	rows, errs := Expand([]Row{
		{RecordID: "sub-RID0420", PortalName: "HUP210_phaseII_D04-D07"},
	})
	require.Empty(t, errs)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"HUP210_phaseII_D04",
		"HUP210_phaseII_D05",
		"HUP210_phaseII_D06",
		"HUP210_phaseII_D07",
	}, datasetIDs(rows))
	assert.Equal(t, 4, rows[0].SegmentIndex)
	assert.Equal(t, 7, rows[3].SegmentIndex)
}

func TestExpand_SingleToken(t *testing.T) {
	rows, errs := Expand([]Row{
		{RecordID: "sub-RID0050", PortalName: "HUP140_phaseII_D4"},
	})
	require.Empty(t, errs)
	require.Len(t, rows, 1)

	assert.Equal(t, "HUP140_phaseII_D4", rows[0].DatasetID)
	assert.Equal(t, 4, rows[0].SegmentIndex)
}

func TestExpand_NoToken(t *testing.T) {
	rows, errs := Expand([]Row{
		{RecordID: "sub-RID0060", PortalName: "HUP150_phaseII"},
	})
	require.Empty(t, errs)
	require.Len(t, rows, 1)

	assert.Equal(t, "HUP150_phaseII", rows[0].DatasetID)
	assert.Equal(t, 1, rows[0].SegmentIndex, "single-segment recordings default to segment 1")
}

func TestExpand_MalformedTokens(t *testing.T) {
	tests := []struct {
		name       string
		portalName string
	}{
		{name: "non-numeric start", portalName: "HUP160_Dx-D2"},
		{name: "non-numeric end", portalName: "HUP160_D1-Dx"},
		{name: "missing end token", portalName: "HUP160_D1-"},
		{name: "start exceeds end", portalName: "HUP160_D5-D2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, errs := Expand([]Row{{RecordID: "r", PortalName: tt.portalName}})
			assert.Empty(t, rows)
			require.Len(t, errs, 1)
			assert.Equal(t, apperrors.ErrCodeRangeParse, apperrors.GetCode(errs[0]))
		})
	}
}

func TestExpand_PartialFailure(t *testing.T) {
	rows, errs := Expand([]Row{
		{RecordID: "a", PortalName: "HUP100_D1-D2"},
		{RecordID: "b", PortalName: "HUP101_Dx-D2"},
		{RecordID: "c", PortalName: "HUP102_phaseII"},
	})

	// The malformed row is reported but never aborts the batch.
	require.Len(t, errs, 1)
	assert.Equal(t, apperrors.ErrCodeRangeParse, apperrors.GetCode(errs[0]))

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"HUP100_D1", "HUP100_D2", "HUP102_phaseII"}, datasetIDs(rows))
}
