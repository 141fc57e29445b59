// Package segments expands compact D-number range tokens into one row per
// recording segment.
//
// Multi-day recordings are published on the portal as a single REDCap row
// whose dataset name ends in a range token, e.g. "HUP123_phaseII_D04-D07"
// meaning four consecutive daily files sharing one metadata row. Per-
// segment clip generation needs one row per concrete file.
package segments

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/killallgit/ieeg-clips/pkg/errors"
)

// Row is one subject row as fetched from REDCap.
type Row struct {
	RecordID   string // e.g. "sub-RID0596"
	PortalName string // dataset name, possibly carrying a D-number range
	HUPNumber  string // hospital subject number, kept for sheet joins
}

// ExpandedRow is one concrete recording segment.
type ExpandedRow struct {
	RecordID     string
	DatasetID    string // synthesized name, e.g. "HUP123_phaseII_D05"
	HUPNumber    string
	SegmentIndex int
}

var dTokenRe = regexp.MustCompile(`^D(\d+)$`)

// Expand converts rows into one row per segment. Malformed range tokens
// yield a range-parse error for that row and the row is skipped; good
// rows are still returned (one bad row never aborts the batch). Callers
// must surface the returned error list.
func Expand(rows []Row) ([]ExpandedRow, []error) {
	var out []ExpandedRow
	var errs []error

	for _, row := range rows {
		expanded, err := expandRow(row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, expanded...)
	}

	return out, errs
}

func expandRow(row Row) ([]ExpandedRow, error) {
	base, token, hasToken := splitToken(row.PortalName)
	if !hasToken {
		// No D-number suffix: a single-segment recording.
		return []ExpandedRow{{
			RecordID:     row.RecordID,
			DatasetID:    row.PortalName,
			HUPNumber:    row.HUPNumber,
			SegmentIndex: 1,
		}}, nil
	}

	start, end, width, err := parseToken(token)
	if err != nil {
		return nil, err
	}

	out := make([]ExpandedRow, 0, end-start+1)
	for d := start; d <= end; d++ {
		out = append(out, ExpandedRow{
			RecordID:     row.RecordID,
			DatasetID:    fmt.Sprintf("%s_D%0*d", base, width, d),
			HUPNumber:    row.HUPNumber,
			SegmentIndex: d,
		})
	}
	return out, nil
}

// splitToken peels a trailing "_D..." component off a portal name. Only
// components that look like D-number tokens are treated as such; names
// like "HUP123_phaseII" pass through unchanged.
func splitToken(name string) (base, token string, ok bool) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 {
		return name, "", false
	}
	tail := name[idx+1:]
	if dTokenRe.MatchString(tail) {
		return name[:idx], tail, true
	}
	// Range candidates are parsed strictly so malformed tokens like
	// "Dx-D2" surface as errors instead of passing through as names.
	if strings.HasPrefix(tail, "D") && strings.Contains(tail, "-") {
		return name[:idx], tail, true
	}
	return name, "", false
}

// parseToken parses "D<start>-D<end>" (inclusive, start <= end) or a
// single "D<n>". The zero-padding width of the start number is preserved
// so "D04-D07" expands to D04..D07 while "D1-D3" expands to D1..D3.
func parseToken(token string) (start, end, width int, err error) {
	lo, hi, isRange := strings.Cut(token, "-")

	m := dTokenRe.FindStringSubmatch(lo)
	if m == nil {
		return 0, 0, 0, apperrors.RangeParse(token, fmt.Sprintf("bad segment number %q", lo))
	}
	width = len(m[1])
	start, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, 0, apperrors.RangeParse(token, fmt.Sprintf("bad segment number %q", lo))
	}

	if !isRange {
		return start, start, width, nil
	}

	m = dTokenRe.FindStringSubmatch(hi)
	if m == nil {
		return 0, 0, 0, apperrors.RangeParse(token, fmt.Sprintf("bad segment number %q", hi))
	}
	end, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, 0, apperrors.RangeParse(token, fmt.Sprintf("bad segment number %q", hi))
	}

	if start > end {
		return 0, 0, 0, apperrors.RangeParse(token, fmt.Sprintf("start %d exceeds end %d", start, end))
	}

	return start, end, width, nil
}
