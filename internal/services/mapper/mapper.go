// Package mapper attaches annotation labels to the clips whose windows
// they overlap.
package mapper

import (
	"sort"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// Apply computes the label set of every clip from the annotations that
// overlap its window. Annotations are sorted once by start offset; each
// clip then binary-searches its candidate range, so the total cost is
// O(n log n + m log n) for n annotations and m clips instead of the naive
// O(n*m). A multi-hour recording at 1-minute windows with thousands of
// portal annotations is the common case.
//
// The input clip slice is modified in place and returned. Insertion order
// of annotations is irrelevant; a clip with no overlapping annotation gets
// an empty label set.
func Apply(clips []models.Clip, annotations []models.Annotation) []models.Clip {
	if len(clips) == 0 || len(annotations) == 0 {
		return clips
	}

	sorted := make([]models.Annotation, len(annotations))
	copy(sorted, annotations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	// Annotations are ordered by start, not end, so an annotation that
	// begins long before a clip can still reach into it. Widening the
	// search window by the longest annotation duration bounds the scan.
	maxDur := 0.0
	for _, a := range sorted {
		if d := a.End - a.Start; d > maxDur {
			maxDur = d
		}
	}

	for ci := range clips {
		clip := &clips[ci]

		// First annotation that could still reach into the clip window.
		lo := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].Start >= clip.Start-maxDur
		})
		// First annotation starting at or beyond the clip end cannot
		// overlap a half-open window.
		hi := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].Start >= clip.End
		})

		var labels map[string]struct{}
		for i := lo; i < hi; i++ {
			if !sorted[i].Overlaps(clip.Start, clip.End) {
				continue
			}
			if labels == nil {
				labels = make(map[string]struct{})
			}
			labels[sorted[i].Label] = struct{}{}
		}

		clip.Labels = flatten(labels)
	}

	return clips
}

// flatten converts the label set to its sorted slice form so repeated runs
// produce byte-identical output.
func flatten(labels map[string]struct{}) models.LabelSet {
	if len(labels) == 0 {
		return nil
	}
	out := make(models.LabelSet, 0, len(labels))
	for label := range labels {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
