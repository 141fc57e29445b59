package annotations

import (
	"sort"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// Merge consolidates annotations from all sources into the sequence the
// clip pipeline consumes. Exact duplicates by (label, start, end, source)
// collapse to one. For seizure annotations, sources override each other by
// precedence (manual-validation > portal > derived): a lower-priority
// seizure whose interval overlaps a higher-priority one is dropped, since
// manual validation exists to correct portal timings. Output order is
// deterministic regardless of input order.
func Merge(anns []models.Annotation) []models.Annotation {
	seen := make(map[models.AnnotationKey]struct{}, len(anns))
	deduped := make([]models.Annotation, 0, len(anns))
	for _, a := range anns {
		key := a.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, a)
	}

	// The override scan consults the full deduped set, so the output must
	// not share its backing array: appending in place would overwrite
	// entries later iterations still compare against.
	out := make([]models.Annotation, 0, len(deduped))
	for i := range deduped {
		if overridden(&deduped[i], deduped) {
			continue
		}
		out = append(out, deduped[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		if out[i].End != out[j].End {
			return out[i].End < out[j].End
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Source.Priority() > out[j].Source.Priority()
	})

	return out
}

// overridden reports whether a seizure annotation is superseded by an
// overlapping seizure from a higher-priority source. Seizure counts are
// small, so the quadratic scan is not a concern.
func overridden(a *models.Annotation, all []models.Annotation) bool {
	if !a.IsSeizure() {
		return false
	}
	for i := range all {
		b := &all[i]
		if !b.IsSeizure() || b.Source.Priority() <= a.Source.Priority() {
			continue
		}
		if b.Overlaps(a.Start, a.End) || (a.IsInstant() && a.Start >= b.Start && a.Start < b.End) {
			return true
		}
	}
	return false
}
